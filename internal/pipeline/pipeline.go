// Package pipeline wires C1-C6 into the single straight-line data flow
// spec.md §2 describes for both indexing and search: WAV reader ->
// preprocessor -> spectrogram engine -> peak extractor -> fingerprint
// builder, with the tone identifier derived from the un-preprocessed
// sample bytes per C10. Both the batch loader and the CLI drive the
// pipeline through this one entry point so the two callers can never
// drift out of sync on parameters.
package pipeline

import (
	"tones/internal/decode"
	"tones/internal/fingerprint"
	"tones/internal/match"
	"tones/internal/models"
	"tones/internal/peaks"
	"tones/internal/preprocess"
	"tones/internal/spectrogram"
	"tones/internal/store"
	"tones/internal/toneid"
	"tones/internal/wavfile"
	"tones/internal/xlog"
)

// DefaultDecimationFactor and DefaultTargetRes match the testable
// property in spec.md §8's silent-WAV scenario (downsample x4, STFT
// target_res 100 Hz).
const (
	DefaultDecimationFactor = 4
	DefaultTargetRes        = 100.0
)

// Params bundles the tunable pipeline parameters so callers don't thread
// four positional arguments through load/search call sites.
type Params struct {
	DecimationFactor int
	TargetRes        float64
	PeakCoef         float64

	// DebugImagePath, when non-empty, writes a grayscale PNG dump of the
	// computed spectrogram (the --debug-image CLI flag).
	DebugImagePath string
}

// DefaultParams is the parameter set used when a caller doesn't need to
// override anything.
var DefaultParams = Params{
	DecimationFactor: DefaultDecimationFactor,
	TargetRes:        DefaultTargetRes,
	PeakCoef:         peaks.DefaultCoef,
}

// Result is everything downstream consumers (store writer, matcher)
// need from one run of the pipeline over a single file.
type Result struct {
	ToneID  uint32
	Records []fingerprint.Record
}

// Run decodes path to canonical WAVE bytes, derives its tone id from the
// raw (un-preprocessed) sample buffer, and runs the full C2-C5 chain to
// produce fingerprint records. params.DecimationFactor/TargetRes/PeakCoef
// fall back to DefaultParams's values when zero.
func Run(path string, params Params) (*Result, error) {
	if params.DecimationFactor < 1 {
		params.DecimationFactor = DefaultParams.DecimationFactor
	}
	if params.TargetRes <= 0 {
		params.TargetRes = DefaultParams.TargetRes
	}
	if params.PeakCoef <= 0 {
		params.PeakCoef = DefaultParams.PeakCoef
	}

	wavBytes, err := decode.ToCanonicalWAV(path)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}

	info, err := wavfile.Parse(wavBytes)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}

	toneID := toneid.FromRawBytes(info.Data)

	sig, err := preprocess.Pipeline(info, params.DecimationFactor)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}

	samples := make([]float64, len(sig.Samples))
	for i, v := range sig.Samples {
		samples[i] = float64(v)
	}

	spec, err := spectrogram.Compute(samples, sig.SampleFreq, params.TargetRes)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}

	if params.DebugImagePath != "" {
		if err := spec.DumpPNG(params.DebugImagePath); err != nil {
			xlog.Logger().Warn("pipeline: failed writing debug spectrogram image", "path", params.DebugImagePath, "error", err)
		}
	}

	rawPeaks := peaks.Extract(spec, params.PeakCoef)
	records := fingerprint.Build(rawPeaks, toneID)

	return &Result{ToneID: toneID, Records: records}, nil
}

// AddressCouples packs r's fingerprint records into storable index
// entries.
func (r *Result) AddressCouples() []models.AddressCouple {
	out := make([]models.AddressCouple, len(r.Records))
	for i, rec := range r.Records {
		out[i] = models.AddressCouple{Address: rec.Address(), Couple: rec.Couple()}
	}
	return out
}

// Queries packs r's fingerprint records into matcher queries.
func (r *Result) Queries() []match.Query {
	out := make([]match.Query, len(r.Records))
	for i, rec := range r.Records {
		out[i] = match.NewQuery(rec)
	}
	return out
}

// Index runs the pipeline over path and writes the resulting tone and
// index entries to s. A tone already registered under the derived id is
// a no-op (StoreTone's documented idempotence), so re-ingesting a file
// after an interrupted batch run is always safe.
func Index(s store.Store, path, name string, params Params) (*Result, error) {
	res, err := Run(path, params)
	if err != nil {
		return nil, err
	}
	if err := s.StoreTone(res.ToneID, name); err != nil {
		return res, err
	}
	if err := s.StoreAddressCouples(res.AddressCouples()); err != nil {
		return res, err
	}
	return res, nil
}

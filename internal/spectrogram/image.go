package spectrogram

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// DumpPNG renders s as a grayscale PNG for debugging, the way the
// teacher's core/image.go dumps its raw complex spectrogram: horizontal
// axis frequency, vertical axis time, brightness proportional to
// magnitude normalized against the spectrogram's own peak. This is
// diagnostic output wired to the CLI's --debug-image flag, not a
// first-class visualization subsystem.
func (s *Spectrogram) DumpPNG(outputPath string) error {
	numFrames := len(s.Magnitude)
	if numFrames == 0 {
		return nil
	}
	numBins := len(s.Magnitude[0])

	img := image.NewGray(image.Rect(0, 0, numBins, numFrames))

	maxMag := 0.0
	for _, frame := range s.Magnitude {
		for _, m := range frame {
			if m > maxMag {
				maxMag = m
			}
		}
	}
	if maxMag == 0 {
		maxMag = 1
	}

	for t, frame := range s.Magnitude {
		for f, m := range frame {
			intensity := uint8(math.Floor(255 * (m / maxMag)))
			img.SetGray(f, t, color.Gray{Y: intensity})
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

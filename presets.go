package mandel

import (
	"fmt"
	"strings"
)

// Preset is a named location worth looking at.
type Preset struct {
	Name             string
	CenterX, CenterY string
	Width            float64
	MaxIterations    int64
}

// Request builds a request for the preset on a samplesX × samplesY grid.
func (p Preset) Request(samplesX, samplesY int) (Request, error) {
	return NewRequest(p.CenterX, p.CenterY, p.Width, samplesX, samplesY, p.MaxIterations)
}

// Classic regions / landmarks in the Mandelbrot set
var (
	FullSet = Preset{Name: "full", CenterX: "-0.5", CenterY: "0", Width: 3.5, MaxIterations: 256}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Preset{Name: "seahorse-valley", CenterX: "-0.75", CenterY: "0.1", Width: 0.1, MaxIterations: 1000}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Preset{Name: "elephant-valley", CenterX: "-1.8", CenterY: "-0.06", Width: 0.1, MaxIterations: 1000}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Preset{Name: "spiral-minibrot", CenterX: "-0.74275", CenterY: "0.13175", Width: 0.0015, MaxIterations: 1000}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Preset{Name: "triple-spiral", CenterX: "-0.7465", CenterY: "0.0965", Width: 0.003, MaxIterations: 1000}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Preset{Name: "valley-of-the-dragon", CenterX: "-0.7375", CenterY: "0.1825", Width: 0.005, MaxIterations: 1000}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Preset{Name: "minibrot-in-mini-spiral", CenterX: "-1.73825", CenterY: "-0.02275", Width: 0.0015, MaxIterations: 1000}

	// Deep Seahorse – far past float64 resolution at the center
	DeepSeahorse = Preset{
		Name:          "deep-seahorse",
		CenterX:       "-0.743643887037158704752191506114774",
		CenterY:       "0.131825904205311970493132056385139",
		Width:         1e-20,
		MaxIterations: 5000,
	}
)

// Presets returns every built-in preset.
func Presets() []Preset {
	return []Preset{
		FullSet,
		SeahorseValley,
		ElephantValley,
		SpiralMinibrot,
		TripleSpiral,
		ValleyOfTheDragon,
		MinibrotInMiniSpiral,
		DeepSeahorse,
	}
}

// PresetByName looks a preset up case-insensitively.
func PresetByName(name string) (Preset, error) {
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

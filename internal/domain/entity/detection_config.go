package entity

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrInvalidConfig параметры детектора не прошли проверку
	ErrInvalidConfig = errors.New("invalid detection config")
	// ErrOverlappingStride шаг меньше размера тайла: тайлы перекрываются и дефекты дублируются
	ErrOverlappingStride = errors.New("stride smaller than tile size")
)

// Band диапазон яркости [Min, Max] включительно
type Band struct {
	Min uint8 `yaml:"min"`
	Max uint8 `yaml:"max"`
}

// Criteria пороги приёма кандидата для одного типа дефекта
type Criteria struct {
	MinArea        float64 `yaml:"min_area"`
	MaxArea        float64 `yaml:"max_area"`
	MinAspect      float64 `yaml:"min_aspect"`
	MaxAspect      float64 `yaml:"max_aspect"`
	MinCircularity float64 `yaml:"min_circularity"`
	BorderMargin   int     `yaml:"border_margin"`
	MinMean        float64 `yaml:"min_mean"`
	MaxMean        float64 `yaml:"max_mean"`
	MinStdDev      float64 `yaml:"min_stddev"` // 0: проверка отключена
}

// DetectionConfig неизменяемый набор параметров детектора.
type DetectionConfig struct {
	TileSize int `yaml:"tile_size"`
	Stride   int `yaml:"stride"`

	SeamBand    Band `yaml:"seam_band"`     // фон, который не может быть дефектом
	MidToneBand Band `yaml:"mid_tone_band"` // канал тёмных дефектов
	ShadowBand  Band `yaml:"shadow_band"`   // канал светлых дефектов

	KernelSize  int     `yaml:"kernel_size"` // сторона прямоугольного структурного элемента
	NarrowSigma float64 `yaml:"narrow_sigma"`
	WideSigma   float64 `yaml:"wide_sigma"`

	MidToneWeight   float64 `yaml:"mid_tone_weight"`
	ShadowWeight    float64 `yaml:"shadow_weight"`
	FrequencyWeight float64 `yaml:"frequency_weight"`

	BinaryThreshold float64 `yaml:"binary_threshold"` // порог после нормализации в 0..255
	MinResponse     float64 `yaml:"min_response"`     // минимальный пик отклика тайла до нормализации
	BoundaryJump    float64 `yaml:"boundary_jump"`    // скачок средней яркости строки, помечающий шов
	PolarityRing    int     `yaml:"polarity_ring"`    // ширина кольца фона для определения полярности

	Dark   Criteria `yaml:"dark"`
	Bright Criteria `yaml:"bright"`

	Workers int `yaml:"workers"` // 0: по числу CPU
}

// DefaultDetectionConfig возвращает параметры, подобранные для исходной установки съёмки.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		TileSize: 256,
		Stride:   256,

		SeamBand:    Band{Min: 150, Max: 200},
		MidToneBand: Band{Min: 80, Max: 200},
		ShadowBand:  Band{Min: 0, Max: 80},

		KernelSize:  7,
		NarrowSigma: 1,
		WideSigma:   2,

		MidToneWeight:   1,
		ShadowWeight:    1,
		FrequencyWeight: 1,

		BinaryThreshold: 10,
		MinResponse:     1,
		BoundaryJump:    20,
		PolarityRing:    3,

		Dark: Criteria{
			MinArea: 5, MaxArea: 800,
			MinAspect: 0.2, MaxAspect: 4,
			MinCircularity: 0.7,
			BorderMargin:   5,
			MinMean:        20, MaxMean: 240,
		},
		Bright: Criteria{
			MinArea: 5, MaxArea: 600,
			MinAspect: 0.3, MaxAspect: 3,
			MinCircularity: 0.6,
			BorderMargin:   5,
			MinMean:        20, MaxMean: 255,
			MinStdDev: 2.5,
		},
	}
}

// WithThreshold возвращает копию с другим порогом бинаризации.
func (c DetectionConfig) WithThreshold(threshold float64) DetectionConfig {
	c.BinaryThreshold = threshold
	return c
}

// WithWorkers возвращает копию с заданным числом воркеров.
func (c DetectionConfig) WithWorkers(workers int) DetectionConfig {
	c.Workers = workers
	return c
}

// CriteriaFor возвращает пороги для типа дефекта. Unknown проверяется по строгому набору Dark.
func (c DetectionConfig) CriteriaFor(t DefectType) Criteria {
	if t == DefectBright {
		return c.Bright
	}
	return c.Dark
}

// Validate проверяет параметры и возвращает все нарушения разом.
func (c DetectionConfig) Validate() error {
	var err error
	if c.TileSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("tile_size must be positive, got %d", c.TileSize))
	}
	if c.Stride <= 0 {
		err = multierr.Append(err, fmt.Errorf("stride must be positive, got %d", c.Stride))
	} else if c.Stride < c.TileSize {
		err = multierr.Append(err, fmt.Errorf("%w: stride %d, tile_size %d", ErrOverlappingStride, c.Stride, c.TileSize))
	}
	err = multierr.Append(err, c.SeamBand.validate("seam_band"))
	err = multierr.Append(err, c.MidToneBand.validate("mid_tone_band"))
	err = multierr.Append(err, c.ShadowBand.validate("shadow_band"))
	if c.KernelSize < 1 {
		err = multierr.Append(err, fmt.Errorf("kernel_size must be at least 1, got %d", c.KernelSize))
	}
	if c.NarrowSigma <= 0 || c.WideSigma <= 0 {
		err = multierr.Append(err, fmt.Errorf("sigmas must be positive, got %.2f and %.2f", c.NarrowSigma, c.WideSigma))
	} else if c.NarrowSigma >= c.WideSigma {
		err = multierr.Append(err, fmt.Errorf("narrow_sigma %.2f must be below wide_sigma %.2f", c.NarrowSigma, c.WideSigma))
	}
	if c.MidToneWeight < 0 || c.ShadowWeight < 0 || c.FrequencyWeight < 0 {
		err = multierr.Append(err, errors.New("fusion weights must not be negative"))
	} else if c.MidToneWeight+c.ShadowWeight+c.FrequencyWeight == 0 {
		err = multierr.Append(err, errors.New("at least one fusion weight must be positive"))
	}
	if c.BinaryThreshold < 0 || c.BinaryThreshold > 255 {
		err = multierr.Append(err, fmt.Errorf("binary_threshold must be within 0..255, got %.2f", c.BinaryThreshold))
	}
	if c.MinResponse < 0 {
		err = multierr.Append(err, fmt.Errorf("min_response must not be negative, got %.2f", c.MinResponse))
	}
	if c.BoundaryJump <= 0 {
		err = multierr.Append(err, fmt.Errorf("boundary_jump must be positive, got %.2f", c.BoundaryJump))
	}
	if c.PolarityRing < 1 {
		err = multierr.Append(err, fmt.Errorf("polarity_ring must be at least 1, got %d", c.PolarityRing))
	}
	err = multierr.Append(err, c.Dark.validate("dark"))
	err = multierr.Append(err, c.Bright.validate("bright"))
	if c.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (b Band) validate(name string) error {
	if b.Min > b.Max {
		return fmt.Errorf("%s: min %d above max %d", name, b.Min, b.Max)
	}
	return nil
}

func (c Criteria) validate(name string) error {
	var err error
	if c.MinArea < 0 || c.MinArea > c.MaxArea {
		err = multierr.Append(err, fmt.Errorf("%s: bad area range [%.1f, %.1f]", name, c.MinArea, c.MaxArea))
	}
	if c.MinAspect < 0 || c.MinAspect > c.MaxAspect {
		err = multierr.Append(err, fmt.Errorf("%s: bad aspect range [%.2f, %.2f]", name, c.MinAspect, c.MaxAspect))
	}
	if c.MinCircularity < 0 || c.MinCircularity > 1 {
		err = multierr.Append(err, fmt.Errorf("%s: min_circularity must be within 0..1, got %.2f", name, c.MinCircularity))
	}
	if c.BorderMargin < 0 {
		err = multierr.Append(err, fmt.Errorf("%s: border_margin must not be negative, got %d", name, c.BorderMargin))
	}
	if c.MinMean > c.MaxMean {
		err = multierr.Append(err, fmt.Errorf("%s: bad mean range [%.1f, %.1f]", name, c.MinMean, c.MaxMean))
	}
	if c.MinStdDev < 0 {
		err = multierr.Append(err, fmt.Errorf("%s: min_stddev must not be negative, got %.2f", name, c.MinStdDev))
	}
	return err
}

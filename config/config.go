package config

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"surface-inspector/internal/domain/entity"
)

// DefaultPadding отступ рамки дефекта на подсвеченном изображении
const DefaultPadding = 3

type Config struct {
	ImagePath     string // INSPECT_IMAGE
	OutputPath    string // INSPECT_OUTPUT, пусто: не сохранять подсветку
	DetectionPath string // DETECTION_CONFIG, пусто: параметры по умолчанию
	ReportFormat  string // REPORT_FORMAT: table или json
	LogLevel      string // LOG_LEVEL
	Workers       int    // INSPECT_WORKERS, 0: по числу CPU
	Padding       int    // RENDER_PADDING
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		ImagePath:     os.Getenv("INSPECT_IMAGE"),
		OutputPath:    os.Getenv("INSPECT_OUTPUT"),
		DetectionPath: os.Getenv("DETECTION_CONFIG"),
		ReportFormat:  envOr("REPORT_FORMAT", "table"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Workers, err = envInt("INSPECT_WORKERS", 0); err != nil {
		return nil, err
	}
	if cfg.Padding, err = envInt("RENDER_PADDING", DefaultPadding); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDetection читает параметры детектора из YAML поверх значений по умолчанию.
// Пустой path возвращает значения по умолчанию. Неизвестные ключи считаются ошибкой.
func LoadDetection(path string) (entity.DetectionConfig, error) {
	cfg := entity.DefaultDetectionConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read detection config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse detection config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("detection config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseRect разбирает прямоугольник "x,y,w,h".
func ParseRect(s string) (image.Rectangle, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("parse rect %q: %w", s, err)
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("parse rect %q: width and height must be positive", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// ParsePoint разбирает точку "x,y".
func ParsePoint(s string) (image.Point, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return image.Point{}, fmt.Errorf("parse point %q: %w", s, err)
	}
	return image.Pt(v[0], v[1]), nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated integers", n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

package preference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// ThemeKey is the client storage key holding the theme choice.
const ThemeKey = "theme"

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"

	DefaultTheme = ThemeSystem
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidTheme, s)
}

type Themes struct {
	storage port.Storage
}

func NewThemes(storage port.Storage) (*Themes, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	return &Themes{storage: storage}, nil
}

// Get returns the stored theme. Missing or unrecognised values fall back to DefaultTheme.
func (t *Themes) Get(ctx context.Context) (Theme, error) {
	data, err := t.storage.Get(ctx, ThemeKey)
	if errors.Is(err, domain.ErrNotFound) {
		return DefaultTheme, nil
	}
	if err != nil {
		return "", fmt.Errorf("storage.Get: %w", err)
	}

	theme, err := ParseTheme(string(data))
	if err != nil {
		return DefaultTheme, nil
	}

	return theme, nil
}

func (t *Themes) Set(ctx context.Context, theme Theme) error {
	theme, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}

	if err := t.storage.Set(ctx, ThemeKey, []byte(theme)); err != nil {
		return fmt.Errorf("storage.Set: %w", err)
	}

	return nil
}

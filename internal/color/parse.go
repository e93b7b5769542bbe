package color

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCSSColor parses #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(...), and
// rgba(...) (including percent components). It returns an error for any
// other syntax, grounded on the same hex/functional forms the retrieval
// pack's SDL terminal renderer accepts.
func ParseCSSColor(s string) (RGBA8, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		return parseFunctional(s)
	default:
		return RGBA8{}, fmt.Errorf("color: unrecognized syntax %q", s)
	}
}

func parseHex(s string) (RGBA8, error) {
	h := s[1:]
	expand := func(c byte) uint8 {
		v, _ := strconv.ParseUint(string([]byte{c, c}), 16, 8)
		return uint8(v)
	}
	byteAt := func(h string, i int) (uint8, error) {
		v, err := strconv.ParseUint(h[i:i+2], 16, 8)
		if err != nil {
			return 0, err
		}
		return uint8(v), nil
	}
	switch len(h) {
	case 3: // #rgb
		return RGBA8{R: expand(h[0]), G: expand(h[1]), B: expand(h[2]), A: 255}, nil
	case 4: // #rgba
		return RGBA8{R: expand(h[0]), G: expand(h[1]), B: expand(h[2]), A: expand(h[3])}, nil
	case 6: // #rrggbb
		r, err := byteAt(h, 0)
		if err != nil {
			return RGBA8{}, fmt.Errorf("color: invalid hex %q: %w", s, err)
		}
		g, err := byteAt(h, 2)
		if err != nil {
			return RGBA8{}, fmt.Errorf("color: invalid hex %q: %w", s, err)
		}
		b, err := byteAt(h, 4)
		if err != nil {
			return RGBA8{}, fmt.Errorf("color: invalid hex %q: %w", s, err)
		}
		return RGBA8{R: r, G: g, B: b, A: 255}, nil
	case 8: // #rrggbbaa
		r, err1 := byteAt(h, 0)
		g, err2 := byteAt(h, 2)
		b, err3 := byteAt(h, 4)
		a, err4 := byteAt(h, 6)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return RGBA8{}, fmt.Errorf("color: invalid hex %q", s)
		}
		return RGBA8{R: r, G: g, B: b, A: a}, nil
	default:
		return RGBA8{}, fmt.Errorf("color: invalid hex length in %q", s)
	}
}

func parseFunctional(s string) (RGBA8, error) {
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close < 0 || close < open {
		return RGBA8{}, fmt.Errorf("color: malformed functional syntax %q", s)
	}
	parts := strings.Split(s[open+1:close], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA8{}, fmt.Errorf("color: expected 3 or 4 components in %q", s)
	}
	comp := func(p string) (float64, error) {
		p = strings.TrimSpace(p)
		if strings.HasSuffix(p, "%") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			if err != nil {
				return 0, err
			}
			return v / 100 * 255, nil
		}
		return strconv.ParseFloat(p, 64)
	}
	r, err := comp(parts[0])
	if err != nil {
		return RGBA8{}, fmt.Errorf("color: invalid component in %q: %w", s, err)
	}
	g, err := comp(parts[1])
	if err != nil {
		return RGBA8{}, fmt.Errorf("color: invalid component in %q: %w", s, err)
	}
	b, err := comp(parts[2])
	if err != nil {
		return RGBA8{}, fmt.Errorf("color: invalid component in %q: %w", s, err)
	}
	a := 255.0
	if len(parts) == 4 {
		ap := strings.TrimSpace(parts[3])
		if strings.HasSuffix(ap, "%") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(ap, "%"), 64)
			if err != nil {
				return RGBA8{}, fmt.Errorf("color: invalid alpha in %q: %w", s, err)
			}
			a = v / 100 * 255
		} else {
			v, err := strconv.ParseFloat(ap, 64)
			if err != nil {
				return RGBA8{}, fmt.Errorf("color: invalid alpha in %q: %w", s, err)
			}
			a = v * 255
		}
	}
	return RGBA8{R: clamp255(r), G: clamp255(g), B: clamp255(b), A: clamp255(a)}, nil
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

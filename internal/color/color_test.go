package color

import "testing"

func testTheme() Theme {
	return Theme{
		DefaultForeground: RGBA8{R: 229, G: 229, B: 229, A: 255},
		DefaultBackground: RGBA8{R: 16, G: 16, B: 16, A: 255},
		Palette:           DefaultPalette(),
	}
}

func TestResolvePaletteEntryNegativeReturnsFallback(t *testing.T) {
	fallback := RGBA8{R: 1, G: 2, B: 3, A: 4}
	got := ResolvePaletteEntry(DefaultPalette(), nil, -1, fallback)
	if got != fallback {
		t.Fatalf("got %+v, want fallback %+v", got, fallback)
	}
}

func TestResolvePaletteEntryOverrideBeatsPalette(t *testing.T) {
	overrides := Overrides{1: {R: 0, G: 128, B: 255, A: 255}}
	got := ResolvePaletteEntry(DefaultPalette(), overrides, 1, RGBA8{})
	want := RGBA8{R: 0, G: 128, B: 255, A: 255}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolvePaletteEntryExtendedMissingFallsBack(t *testing.T) {
	fallback := RGBA8{R: 9, G: 9, B: 9, A: 255}
	pal := PaletteTable{} // no extended entries
	got := ResolvePaletteEntry(pal, nil, 200, fallback)
	if got != fallback {
		t.Fatalf("got %+v, want fallback %+v", got, fallback)
	}
}

func TestTerminalColorToRGBADefaultAsNull(t *testing.T) {
	_, ok := TerminalColorToRGBA(Ref{Kind: Default}, testTheme(), nil, RGBA8{}, true)
	if ok {
		t.Fatal("expected default-as-null to report ok=false")
	}
}

func TestTerminalColorToRGBAANSIBrightOffsetsByEight(t *testing.T) {
	theme := testTheme()
	got, ok := TerminalColorToRGBA(Ref{Kind: ANSIBright, Index: 1}, theme, nil, RGBA8{}, false)
	if !ok {
		t.Fatal("expected ok")
	}
	want := theme.Palette.ANSI[9]
	if got != want {
		t.Fatalf("got %+v, want ansi[9]=%+v", got, want)
	}
}

func TestTerminalColorToRGBARGBPassesThrough(t *testing.T) {
	got, ok := TerminalColorToRGBA(Ref{Kind: RGB, R: 10, G: 20, B: 30}, testTheme(), nil, RGBA8{}, false)
	if !ok || got != (RGBA8{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("got %+v, ok=%v", got, ok)
	}
}

func TestResolveCellColorsIdempotent(t *testing.T) {
	attr := Attr{Foreground: Ref{Kind: ANSI, Index: 1}, Background: Ref{Kind: Default}}
	theme := testTheme()
	a := ResolveCellColors(attr, theme, nil)
	b := ResolveCellColors(attr, theme, nil)
	if *a.Foreground != *b.Foreground {
		t.Fatalf("not idempotent: %+v vs %+v", a, b)
	}
	if (a.Background == nil) != (b.Background == nil) {
		t.Fatalf("background nilness differs")
	}
}

func TestResolveCellColorsInverseSwaps(t *testing.T) {
	theme := testTheme()
	attr := Attr{
		Foreground: Ref{Kind: ANSI, Index: 1},
		Background: Ref{Kind: Default},
		Inverse:    true,
	}
	res := ResolveCellColors(attr, theme, nil)
	if res.Foreground == nil || *res.Foreground != theme.DefaultBackground {
		t.Fatalf("expected inverse fg to be default bg, got %+v", res.Foreground)
	}
	if res.Background == nil || res.Background.R != theme.Palette.ANSI[1].R {
		t.Fatalf("expected inverse bg to be original fg (ansi1), got %+v", res.Background)
	}
}

func TestResolveCellColorsHiddenClearsForeground(t *testing.T) {
	theme := testTheme()
	attr := Attr{Foreground: Ref{Kind: ANSI, Index: 1}, Hidden: true}
	res := ResolveCellColors(attr, theme, nil)
	if res.Foreground != nil {
		t.Fatalf("expected nil foreground when hidden, got %+v", res.Foreground)
	}
}

func TestParseCSSColorHexVariants(t *testing.T) {
	cases := map[string]RGBA8{
		"#fff":       {R: 255, G: 255, B: 255, A: 255},
		"#0f08":      {R: 0, G: 255, B: 0, A: 136},
		"#ff5555":    {R: 255, G: 85, B: 85, A: 255},
		"#0080ffcc":  {R: 0, G: 128, B: 255, A: 204},
	}
	for in, want := range cases {
		got, err := ParseCSSColor(in)
		if err != nil {
			t.Fatalf("ParseCSSColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseCSSColor(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestParseCSSColorFunctional(t *testing.T) {
	got, err := ParseCSSColor("rgba(0, 128, 255, 0.5)")
	if err != nil {
		t.Fatal(err)
	}
	if got.R != 0 || got.G != 128 || got.B != 255 || got.A != 128 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseCSSColorPercentComponents(t *testing.T) {
	got, err := ParseCSSColor("rgb(100%, 0%, 50%)")
	if err != nil {
		t.Fatal(err)
	}
	if got.R != 255 || got.G != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseCSSColorRejectsUnknownSyntax(t *testing.T) {
	if _, err := ParseCSSColor("cornflowerblue"); err == nil {
		t.Fatal("expected error for named color")
	}
}

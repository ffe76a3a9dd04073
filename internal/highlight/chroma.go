// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package highlight

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/jeranaias/quake-console/internal/styledtext"
)

// =============================================================================
// SOURCE HIGHLIGHTING (Chroma-based)
// =============================================================================

// Source highlights code in the named language with a chroma style, reduced
// to the eight-color palette. An empty or unknown language is guessed from
// the code. An unknown style falls back to chroma's default.
func Source(code, language, style string) (string, error) {
	return highlight(code, pickLexer(language, "", code), style)
}

// File highlights code read from path, choosing the lexer by file name
// when language is empty.
func File(path, code, language, style string) (string, error) {
	return highlight(code, pickLexer(language, path, code), style)
}

// Supported reports whether chroma has a lexer for language.
func Supported(language string) bool {
	return lexers.Get(language) != nil
}

func pickLexer(language, path, code string) chroma.Lexer {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil && path != "" {
		lexer = lexers.Match(filepath.Base(path))
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func highlight(code string, lexer chroma.Lexer, styleName string) (string, error) {
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lexer.Config().Name, err)
	}

	palette := styledtext.DefaultPalette()
	reset := termenv.CSI + termenv.ResetSeq + "m"

	var sb strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		sgr := tokenSGR(style.Get(token.Type), palette)
		if sgr == "" {
			sb.WriteString(token.Value)
			continue
		}
		// Color each line separately so a reset always precedes the newline.
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if part == "" {
				continue
			}
			sb.WriteString(termenv.CSI + sgr + "m")
			sb.WriteString(part)
			sb.WriteString(reset)
		}
	}
	return sb.String(), nil
}

// tokenSGR maps a style entry to SGR parameters, or "" for plain text.
func tokenSGR(entry chroma.StyleEntry, palette styledtext.Palette) string {
	var params []string
	if entry.Colour.IsSet() {
		index, bright := nearest(palette, color.RGBA{
			R: entry.Colour.Red(), G: entry.Colour.Green(), B: entry.Colour.Blue(), A: 255,
		})
		params = append(params, strconv.Itoa(30+index))
		if bright || entry.Bold == chroma.Yes {
			params = append(params, "1")
		}
	}
	return strings.Join(params, ";")
}

// nearest finds the closest palette foreground to c.
func nearest(p styledtext.Palette, c color.RGBA) (index int, bright bool) {
	best := -1
	for i := 0; i < 8; i++ {
		for _, b := range []bool{false, true} {
			d := distance(p.Foreground(i, b), c)
			if best < 0 || d < best {
				best, index, bright = d, i, b
			}
		}
	}
	return index, bright
}

func distance(a, b color.RGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// ConverterTool is the librsvg command used for PDF output and scaled PNGs.
const ConverterTool = "rsvg-convert"

// MaxScale bounds the zoom factor of [ToPNG]. A 5000-node diagram at 8x is
// already tens of megapixels.
const MaxScale = 8.0

// installHint is appended to the error when ConverterTool is missing.
const installHint = "install librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux)"

// ValidateScale checks a PNG zoom factor. Zero means unscaled.
func ValidateScale(scale float64) error {
	if scale < 0 || scale > MaxScale {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be between 0 and %g, got %g", MaxScale, scale)
	}
	return nil
}

// ToPDF converts SVG bytes to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG zoomed by scale; 2.0 doubles the
// resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if err := ValidateScale(scale); err != nil {
		return nil, err
	}
	return convert(ctx, svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

// convert pipes svg through ConverterTool. A missing tool is UNAVAILABLE,
// so the server answers 503 rather than 500.
func convert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	path, err := exec.LookPath(ConverterTool)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "%s output needs %s; %s", format, ConverterTool, installHint)
	}

	cmd := exec.CommandContext(ctx, path, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: %s", ConverterTool, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/entigraph/pkg/errors"
)

// rsvgConvert is the librsvg command-line converter.
const rsvgConvert = "rsvg-convert"

// ToPDF converts SVG bytes to PDF with rsvg-convert.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG with rsvg-convert. scale multiplies the
// SVG's pixel size.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return convertSVG(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// ConverterAvailable reports whether PDF and PNG output can be produced.
func ConverterAvailable() bool {
	_, err := exec.LookPath(rsvgConvert)
	return err == nil
}

func convertSVG(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	if !ConverterAvailable() {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"%s output needs %s on PATH (apt install librsvg2-bin, brew install librsvg)", format, rsvgConvert)
	}

	cmd := exec.CommandContext(ctx, rsvgConvert, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

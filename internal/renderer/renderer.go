// Package renderer turns report markup into raster images. The cycle loop
// only depends on the Renderer interface; the default implementation drives
// a headless Chrome through chromedp.
package renderer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/chromedp/chromedp"
)

const screenshotQuality = 90

type Renderer interface {
	Render(ctx context.Context, html string, width int) ([]byte, error)
}

type ChromeRenderer struct {
	allocatorOptions []chromedp.ExecAllocatorOption
}

func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{
		allocatorOptions: chromedp.DefaultExecAllocatorOptions[:],
	}
}

// Render loads the markup into a fresh browser tab sized to width and
// captures a full-page screenshot as PNG bytes.
func (r *ChromeRenderer) Render(ctx context.Context, html string, width int) ([]byte, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var image []byte
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(width), 1),
		chromedp.Navigate(dataURL),
		chromedp.FullScreenshot(&image, screenshotQuality),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render report image: %w", err)
	}

	return image, nil
}

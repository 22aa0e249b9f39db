// Package chromedprender renders template markup to a screenshot with a
// headless Chrome instance.
package chromedprender

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	viewportWidth  = 1600
	viewportHeight = 900
	// Let stylesheets and fonts settle before capturing.
	settleDelay = 500 * time.Millisecond
)

// Renderer implements service.PreviewRenderer. A fresh browser context is
// created per render off a shared allocator, so a crashed tab never takes
// the service down with it.
type Renderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	timeout     time.Duration
}

// NewRenderer starts the shared Chrome allocator.
func NewRenderer(timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(),
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("hide-scrollbars", true),
		)...,
	)
	return &Renderer{allocCtx: allocCtx, cancelAlloc: cancel, timeout: timeout}
}

// RenderImage loads the markup into a fresh tab and captures a full-page
// PNG screenshot.
func (r *Renderer) RenderImage(ctx context.Context, markup string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, r.timeout)
	defer cancelRun()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.Sleep(settleDelay),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp: render preview: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close shuts the shared allocator down.
func (r *Renderer) Close() {
	r.cancelAlloc()
}

package sink

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PDFMimeType is the MIME type of rendered documents.
const PDFMimeType = "application/pdf"

// renderTimeout bounds one headless Chrome session.
const renderTimeout = 60 * time.Second

// chromeNames are the executables tried, in order, when looking for a
// browser to render with.
var chromeNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// PDFPresenter renders each printable document to print_<uuid>.pdf with
// headless Chrome and delivers it through a Sink. It is used when print_mode
// is "pdf".
type PDFPresenter struct {
	out Sink
	log zerolog.Logger

	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
}

// NewPDFPresenter returns a presenter delivering rendered PDFs to out.
func NewPDFPresenter(out Sink, log zerolog.Logger) *PDFPresenter {
	return &PDFPresenter{
		out:      out,
		log:      log.With().Str("component", "pdf_presenter").Logger(),
		lookPath: exec.LookPath,
	}
}

// Open returns nil when no Chrome or Chromium executable is installed.
func (p *PDFPresenter) Open(ctx context.Context) Window {
	execPath := p.findChrome()
	if execPath == "" {
		p.log.Debug().Strs("tried", chromeNames).Msg("no headless browser available")
		return nil
	}
	return &pdfWindow{ctx: ctx, presenter: p, execPath: execPath}
}

func (p *PDFPresenter) findChrome() string {
	for _, name := range chromeNames {
		if path, err := p.lookPath(name); err == nil {
			return path
		}
	}
	return ""
}

type pdfWindow struct {
	ctx       context.Context
	presenter *PDFPresenter
	execPath  string
}

func (w *pdfWindow) Write(doc string) error {
	pdf, err := RenderPDF(w.ctx, doc, w.execPath)
	if err != nil {
		return err
	}

	filename := "print_" + uuid.New().String() + ".pdf"
	if err := w.presenter.out.Deliver(w.ctx, pdf, filename, PDFMimeType); err != nil {
		return err
	}
	w.presenter.log.Info().Str("file", filename).Int("bytes", len(pdf)).Msg("rendered printable document")
	return nil
}

// RenderPDF loads doc into a blank headless Chrome tab and prints it.
//
// PARAMETERS:
//   - ctx: Cancels the browser session.
//   - doc: A complete HTML document.
//   - execPath: The Chrome executable. Empty lets chromedp search for one.
//
// RETURNS:
//   - The PDF bytes, with backgrounds printed.
func RenderPDF(ctx context.Context, doc, execPath string) ([]byte, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	// Chrome refuses to start as root with the sandbox enabled.
	if os.Geteuid() == 0 {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, renderTimeout)
	defer cancelTimeout()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf, nil
}

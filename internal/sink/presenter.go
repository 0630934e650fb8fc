package sink

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FilePresenter writes each document to print_<uuid>.html in a directory.
// It is used on headless hosts and when print_mode is "file".
type FilePresenter struct {
	Dir string
	log zerolog.Logger
}

// NewFilePresenter returns a presenter writing into dir.
func NewFilePresenter(dir string, log zerolog.Logger) *FilePresenter {
	return &FilePresenter{
		Dir: dir,
		log: log.With().Str("component", "file_presenter").Logger(),
	}
}

// Open always succeeds.
func (p *FilePresenter) Open(context.Context) Window {
	return &fileWindow{presenter: p}
}

type fileWindow struct {
	presenter *FilePresenter
}

func (w *fileWindow) Write(doc string) error {
	path, err := writeDocument(w.presenter.Dir, doc)
	if err != nil {
		return err
	}
	w.presenter.log.Info().Str("file", path).Msg("wrote printable document")
	return nil
}

// BrowserPresenter writes the document to a temporary file and opens it with
// the platform's default browser.
type BrowserPresenter struct {
	Dir string
	log zerolog.Logger

	// lookPath and command are swapped in tests.
	lookPath func(string) (string, error)
	command  func(name string, args ...string) *exec.Cmd
}

// NewBrowserPresenter returns a presenter staging documents in dir (the OS
// temp directory when empty).
func NewBrowserPresenter(dir string, log zerolog.Logger) *BrowserPresenter {
	if dir == "" {
		dir = os.TempDir()
	}
	return &BrowserPresenter{
		Dir:      dir,
		log:      log.With().Str("component", "browser_presenter").Logger(),
		lookPath: exec.LookPath,
		command:  exec.Command,
	}
}

// Open returns nil when no opener program is available on this host, the
// equivalent of a blocked popup.
func (p *BrowserPresenter) Open(context.Context) Window {
	name, args := openerCommand()
	if name == "" {
		return nil
	}
	if _, err := p.lookPath(name); err != nil {
		p.log.Debug().Str("opener", name).Err(err).Msg("no browser opener available")
		return nil
	}
	return &browserWindow{presenter: p, name: name, args: args}
}

type browserWindow struct {
	presenter *BrowserPresenter
	name      string
	args      []string
}

func (w *browserWindow) Write(doc string) error {
	path, err := writeDocument(w.presenter.Dir, doc)
	if err != nil {
		return err
	}

	cmd := w.presenter.command(w.name, append(w.args, path)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	// The opener detaches; reap it without blocking the caller.
	go cmd.Wait()

	w.presenter.log.Info().Str("file", path).Msg("opened printable document")
	return nil
}

// openerCommand returns the program and leading arguments that open a file
// in the default application.
func openerCommand() (string, []string) {
	switch runtime.GOOS {
	case "windows":
		return "cmd", []string{"/c", "start", `""`}
	case "darwin":
		return "open", nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", nil
	default:
		return "", nil
	}
}

func writeDocument(dir, doc string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, "print_"+uuid.New().String()+".html")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}

package sink

import (
	"context"
	"sync"
)

// Delivery is one recorded Deliver call.
type Delivery struct {
	Content  []byte
	Filename string
	MimeType string
}

// Recorder is an in-memory Sink and Presenter. It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
	documents  []string

	// Blocked makes Open return nil, as a host with popups blocked would.
	Blocked bool
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Deliver records the delivery. Content is copied.
func (r *Recorder) Deliver(_ context.Context, content []byte, filename, mimeType string) error {
	if filename == "" {
		return ErrEmptyFilename
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.deliveries = append(r.deliveries, Delivery{
		Content:  append([]byte(nil), content...),
		Filename: filename,
		MimeType: mimeType,
	})
	return nil
}

// Open returns a window recording into r, or nil when Blocked.
func (r *Recorder) Open(context.Context) Window {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Blocked {
		return nil
	}
	return recorderWindow{r}
}

// Deliveries returns a copy of the recorded deliveries.
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}

// Last returns the most recent delivery.
func (r *Recorder) Last() (Delivery, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.deliveries) == 0 {
		return Delivery{}, false
	}
	return r.deliveries[len(r.deliveries)-1], true
}

// Documents returns the documents written to opened windows.
func (r *Recorder) Documents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.documents...)
}

type recorderWindow struct{ r *Recorder }

func (w recorderWindow) Write(doc string) error {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()
	w.r.documents = append(w.r.documents, doc)
	return nil
}

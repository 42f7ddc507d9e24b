package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/docline/internal/engine/line"
	"github.com/dshills/docline/internal/renderer/core"
	"github.com/dshills/docline/internal/renderer/format"
)

// watchInterval is the polling interval used when configuration files
// cannot be watched with fsnotify.
var watchInterval = 500 * time.Millisecond

// EventSource is implemented by backends that deliver input.
type EventSource interface {
	PollEvent() tcell.Event
}

// Render draws the visible rows, the gutter and the status bar, then
// flushes the backend.
func (a *Application) Render() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.backend == nil {
		return
	}

	width, height := a.backend.Size()
	a.backend.Clear()
	textRows := a.textRows()

	gw := 0
	if a.gutter != nil {
		a.gutter.SetLineCount(a.doc.Len())
		gw = a.gutter.Width()
	}

	y, row := 0, a.top.row
	for n := a.top.line; y < textRows; n++ {
		h := a.doc.LineAt(n)
		if h == nil {
			break
		}
		h.Ref()
		end := min(h.RowCount(), row+textRows-y)
		h.Draw(a.backend, line.DrawOptions{
			Origin:        core.ScreenPos{Row: y - row, Col: gw},
			XOffset:       a.xOffset,
			ViewportWidth: width - gw,
			Palette:       &a.palette,
			YStart:        row,
			YEnd:          end,
		})
		h.Deref()
		if a.gutter != nil {
			for r := row; r < end; r++ {
				a.gutter.DrawRow(a.backend, y+r-row, n, r == 0)
			}
		}
		y += end - row
		row = 0
	}

	if textRows < height {
		a.status.Line = a.top.line
		a.status.Total = a.doc.Len()
		a.status.Language = a.analyzer.Language()
		a.status.Render(a.backend, height-1)
	}
	a.backend.Show()
}

// textRows is the number of rows left for text after the status bar.
func (a *Application) textRows() int {
	_, h := a.backend.Size()
	if h > 1 {
		return h - 1
	}
	return h
}

// ScrollBy moves the view n visual rows down, or up when n is negative.
func (a *Application) ScrollBy(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scrollLocked(n)
}

func (a *Application) scrollLocked(n int) {
	for ; n > 0; n-- {
		h := a.doc.LineAt(a.top.line)
		switch {
		case h != nil && a.top.row+1 < h.RowCount():
			a.top.row++
		case a.top.line+1 < a.doc.Len():
			a.top = position{line: a.top.line + 1}
		default:
			return
		}
	}
	for ; n < 0; n++ {
		switch {
		case a.top.row > 0:
			a.top.row--
		case a.top.line > 0:
			a.top.line--
			a.top.row = max(a.doc.LineAt(a.top.line).RowCount()-1, 0)
		default:
			return
		}
	}
}

// TopLine returns the line and visual row shown first.
func (a *Application) TopLine() (lineNo, row int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.top.line, a.top.row
}

func (a *Application) pageSize() int {
	if a.backend == nil {
		return 1
	}
	return max(a.textRows()-1, 1)
}

// HandleKey applies a key press and redraws. It returns ErrQuit for the
// quit keys.
func (a *Application) HandleKey(ev *tcell.EventKey) error {
	a.mu.Lock()
	page := a.pageSize()
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		a.mu.Unlock()
		return ErrQuit
	case tcell.KeyDown, tcell.KeyEnter:
		a.scrollLocked(1)
	case tcell.KeyUp:
		a.scrollLocked(-1)
	case tcell.KeyPgDn:
		a.scrollLocked(page)
	case tcell.KeyPgUp:
		a.scrollLocked(-page)
	case tcell.KeyHome:
		a.top = position{}
	case tcell.KeyEnd:
		a.scrollEndLocked(page)
	case tcell.KeyLeft:
		a.xOffset = max(a.xOffset-1, 0)
	case tcell.KeyRight:
		a.xOffset++
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.mu.Unlock()
			return ErrQuit
		case 'j':
			a.scrollLocked(1)
		case 'k':
			a.scrollLocked(-1)
		case ' ':
			a.scrollLocked(page)
		case 'b':
			a.scrollLocked(-page)
		case 'g':
			a.top = position{}
		case 'G':
			a.scrollEndLocked(page)
		}
	}
	a.mu.Unlock()
	a.Render()
	return nil
}

func (a *Application) scrollEndLocked(page int) {
	last := a.doc.Len() - 1
	if last < 0 {
		return
	}
	a.top = position{line: last, row: max(a.doc.LineAt(last).RowCount()-1, 0)}
	a.scrollLocked(-page)
}

// Run initializes the backend, highlights the document and processes input
// until a quit key, ctx cancellation or Close.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	a.mu.Lock()
	b := a.backend
	a.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}
	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	if err := a.Analyze(ctx); err != nil {
		a.logger.Warn("highlighting failed", "error", err)
	}
	a.Render()

	if a.opts.Watch {
		w, err := a.watchConfig(ctx, watchInterval)
		if err != nil {
			a.logger.Warn("configuration reload disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	src, ok := b.(EventSource)
	if !ok {
		select {
		case <-ctx.Done():
		case <-a.done:
		}
		return nil
	}

	events := make(chan tcell.Event)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := src.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.done:
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if err := a.HandleKey(ev); err == ErrQuit {
					return nil
				}
			case *tcell.EventResize:
				a.Render()
			}
		}
	}
}

// Search highlights every occurrence of term with the search format,
// replacing earlier results. It returns the number of matches.
func (a *Application) Search(term string) int {
	count := 0
	for _, h := range a.doc.Lines() {
		e := h.LockForWrite()
		e.ClearOverlaysOf(a.searchID)
		if term != "" {
			text := e.Text()
			for off := 0; ; {
				i := strings.Index(text[off:], term)
				if i < 0 {
					break
				}
				start := utf8.RuneCountInString(text[:off+i])
				e.AddOverlay(format.Range{Start: start, Length: utf8.RuneCountInString(term), Format: a.searchID})
				count++
				off += i + len(term)
			}
		}
		e.Unlock()
	}

	a.mu.Lock()
	a.status.Message = ""
	if term != "" {
		a.status.Message = fmt.Sprintf("%d matches for %q", count, term)
	}
	a.mu.Unlock()
	return count
}

// ExportHTML writes the document as a highlighted <pre> block.
func (a *Application) ExportHTML(w io.Writer) error {
	open := "<pre>"
	if css := format.CSS(a.palette.Base); css != "" {
		open = fmt.Sprintf("<pre style=\"%s\">", css)
	}
	lines := a.doc.Lines()
	parts := make([]string, len(lines))
	for i, h := range lines {
		parts[i] = h.ExportAsHTML(0, -1)
	}
	_, err := fmt.Fprintf(w, "%s%s</pre>\n", open, strings.Join(parts, "\n"))
	return err
}

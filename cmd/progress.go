package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/wpinspect/internal/audit"
)

type progressPrinter struct {
	total    int
	name     string
	out      io.Writer
	mu       sync.Mutex
	pass     int
	warn     int
	fail     int
	duration float64
	updates  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newProgressPrinter(total int, name string, out io.Writer) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		total:   total,
		name:    name,
		out:     out,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	go p.loop()
}

func (p *progressPrinter) Increment(status audit.Status, duration float64) {
	p.mu.Lock()
	switch status {
	case audit.StatusPass:
		p.pass++
	case audit.StatusWarning:
		p.warn++
	default:
		p.fail++
	}
	p.duration += duration
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", 80))
	p.printLocked()
	fmt.Fprintln(p.out)
}

func (p *progressPrinter) loop() {
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.print()
		case <-ticker.C:
			p.print()
		case <-p.done:
			return
		}
	}
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.done:
		return
	default:
	}
	p.printLocked()
}

func (p *progressPrinter) printLocked() {
	completed := p.pass + p.warn + p.fail
	if completed > p.total {
		p.total = completed
	}

	percent := (float64(completed) / float64(p.total)) * 100
	avg := 0.0
	if completed > 0 {
		avg = p.duration / float64(completed)
	}

	fmt.Fprintf(p.out, "\r[%s] Progress: %d/%d (%.1f%%) Pass:%d Warn:%d Fail:%d Avg:%.2fs",
		p.name, completed, p.total, percent, p.pass, p.warn, p.fail, avg)
}

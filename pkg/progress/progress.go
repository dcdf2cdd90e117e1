// Package progress renders a live status line for long counting runs.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/sonemaro/loctor/pkg/logger"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	status    Status
	message   string
	isActive  bool
	renderer  renderer
	refresh   time.Duration

	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
}

// New creates a new progress visualization instance.
func New(config Config, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}

	width := config.Width
	if width == 0 {
		width = terminalWidth()
	}

	p := &progress{
		config:   config,
		log:      log,
		writer:   os.Stdout,
		refresh:  config.RefreshRate,
		stopChan: make(chan struct{}),
	}

	switch config.Style {
	case StyleSimple:
		p.renderer = &simpleRenderer{noColor: config.NoColor, width: width}
	default:
		p.renderer = &spinnerRenderer{noColor: config.NoColor, width: width}
	}

	p.log.WithFields(logger.Fields{
		"style":   config.Style,
		"width":   width,
		"noColor": config.NoColor,
		"refresh": config.RefreshRate,
	}).Debug("Created progress instance")

	return p
}

func (p *progress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.status.StartTime = time.Now()
	p.isActive = true

	go p.renderLoop()
}

func (p *progress) Update(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if status.StartTime.IsZero() {
		status.StartTime = p.status.StartTime
	}
	p.status = status
}

func (p *progress) Complete(message string) {
	p.finish("Complete: " + message)
}

func (p *progress) Error(message string) {
	p.finish("Error: " + message)
}

func (p *progress) finish(message string) {
	p.mu.Lock()
	if p.isActive {
		p.message = message
		fmt.Fprint(p.writer, p.renderer.render(p.status, p.message)+"\n")
		p.isActive = false
	}
	p.mu.Unlock()

	p.Stop()
}

func (p *progress) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})

	p.mu.Lock()
	p.isActive = false
	p.mu.Unlock()
}

func (p *progress) renderLoop() {
	ticker := time.NewTicker(p.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.isActive {
				fmt.Fprint(p.writer, p.renderer.render(p.status, p.message))
			}
			p.mu.Unlock()
		}
	}
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

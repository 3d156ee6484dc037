// Package audit records the control commands consumed by the agent.
//
// It implements a publish-subscribe pattern for distributing audit events to
// multiple destinations including files and HTTP endpoints.
package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	models "github.com/Schera-ole/monitor/internal/model"
)

const (
	eventBuffer = 16
	postTimeout = 5 * time.Second
)

// AuditLogger is an interface for logging audit events.
type AuditLogger interface {
	// Log records what the agent did with a command naming metrics.
	Log(metrics []string, outcome, detail string)
}

// auditLogger is a concrete implementation of AuditLogger that sends events to a channel.
type auditLogger struct {
	eventChan chan models.AuditEvent
	logger    *zap.SugaredLogger
}

// NewAuditLogger creates a new AuditLogger that sends events to the provided channel.
func NewAuditLogger(eventChan chan models.AuditEvent, logger *zap.SugaredLogger) AuditLogger {
	return &auditLogger{
		eventChan: eventChan,
		logger:    logger,
	}
}

// Log never blocks: the event is dropped when the channel is full.
func (a *auditLogger) Log(metrics []string, outcome, detail string) {
	event := models.AuditEvent{
		TS:      time.Now().Format(time.RFC3339),
		Metrics: append([]string(nil), metrics...),
		Outcome: outcome,
		Detail:  detail,
	}

	select {
	case a.eventChan <- event:
	default:
		a.logger.Warn("audit: dropped event, channel is full")
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Log([]string, string, string) {}

// Broadcaster distributes audit events to multiple subscriber channels.
//
// A blocked subscriber loses the event instead of stalling the others.
// Subscriber channels are closed once source is drained.
func Broadcaster(logger *zap.SugaredLogger, source <-chan models.AuditEvent, subs ...chan<- models.AuditEvent) {
	defer func() {
		for _, subChan := range subs {
			close(subChan)
		}
	}()
	for evt := range source {
		for _, subChan := range subs {
			select {
			case subChan <- evt:
			default:
				logger.Warn("audit: dropped event for blocked subscriber")
			}
		}
	}
}

// FileSubscriber appends audit events to path as JSON lines.
func FileSubscriber(events <-chan models.AuditEvent, path string, logger *zap.SugaredLogger) {
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorf("audit: marshal event: %v", err)
			continue
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			logger.Errorf("audit: open %s: %v", path, err)
			continue
		}
		if _, err = f.Write(append(data, '\n')); err != nil {
			logger.Errorf("audit: write %s: %v", path, err)
		}
		f.Close()
		logger.Debugf("audit: event written to %s", path)
	}
}

// URLSubscriber posts audit events to url as JSON.
func URLSubscriber(events <-chan models.AuditEvent, url string, client *http.Client, logger *zap.SugaredLogger) {
	if client == nil {
		client = &http.Client{Timeout: postTimeout}
	}
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorf("audit: marshal event: %v", err)
			continue
		}
		resp, err := client.Post(url, "application/json", bytes.NewReader(data))
		if err != nil {
			logger.Errorf("audit: post to %s: %v", url, err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			logger.Warnf("audit: %s answered %s", url, resp.Status)
			continue
		}
		logger.Debugf("audit: event sent to %s", url)
	}
}

// Pipeline owns the goroutines behind an AuditLogger.
type Pipeline struct {
	AuditLogger
	source chan models.AuditEvent
	wg     sync.WaitGroup
	once   sync.Once
}

// NewPipeline wires a logger to the configured subscribers. With neither a
// file nor a URL the returned pipeline discards events.
func NewPipeline(file, url string, logger *zap.SugaredLogger) *Pipeline {
	p := &Pipeline{}
	var subs []chan<- models.AuditEvent

	if file != "" {
		ch := make(chan models.AuditEvent, eventBuffer)
		subs = append(subs, ch)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			FileSubscriber(ch, file, logger)
		}()
	}
	if url != "" {
		ch := make(chan models.AuditEvent, eventBuffer)
		subs = append(subs, ch)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			URLSubscriber(ch, url, nil, logger)
		}()
	}

	if len(subs) == 0 {
		p.AuditLogger = Nop{}
		return p
	}

	p.source = make(chan models.AuditEvent, eventBuffer)
	p.AuditLogger = NewAuditLogger(p.source, logger)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		Broadcaster(logger, p.source, subs...)
	}()
	return p
}

// Close flushes pending events and waits for the subscribers to finish.
// Log must not be called after Close.
func (p *Pipeline) Close() {
	p.once.Do(func() {
		if p.source != nil {
			close(p.source)
		}
	})
	p.wg.Wait()
}

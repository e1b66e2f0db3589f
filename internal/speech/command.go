package speech

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"objradar.klederson.com/internal/config"
	"objradar.klederson.com/internal/logging"
)

// ErrNoEngine is returned when no text-to-speech command is installed.
var ErrNoEngine = errors.New("no speech engine found (install espeak-ng or pass --speech-cmd)")

// engines are tried in order; each takes the text as its last argument.
var engines = []string{"espeak-ng", "espeak", "say", "spd-say"}

type runner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// FindEngine resolves the speech command. A non-empty override such as
// "espeak -s 160" is split on spaces and must exist on PATH.
func FindEngine(override string) (string, []string, error) {
	if fields := strings.Fields(override); len(fields) > 0 {
		path, err := exec.LookPath(fields[0])
		if err != nil {
			return "", nil, ErrNoEngine
		}
		return path, fields[1:], nil
	}
	for _, name := range engines {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil, nil
		}
	}
	return "", nil, ErrNoEngine
}

// CommandSink speaks notifications through an external TTS command.
// Utterances queue up and are spoken one at a time in arrival order;
// when the queue is full new ones are dropped.
type CommandSink struct {
	name    string
	args    []string
	run     runner
	timeout time.Duration
	log     logrus.FieldLogger

	queue chan string
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewCommandSink starts a sink running name args... text per notification.
func NewCommandSink(name string, args []string, log logrus.FieldLogger) *CommandSink {
	return newCommandSink(name, args, log, runCommand)
}

func newCommandSink(name string, args []string, log logrus.FieldLogger, run runner) *CommandSink {
	s := &CommandSink{
		name:    name,
		args:    args,
		run:     run,
		timeout: config.SpeechTimeout,
		log:     logging.OrDiscard(log),
		queue:   make(chan string, config.SpeechQueueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// Notify queues text without blocking.
func (s *CommandSink) Notify(text string) {
	select {
	case <-s.stop:
		return
	default:
	}

	select {
	case s.queue <- text:
	default:
		s.log.WithField("text", text).Warn("speech queue full, dropping")
	}
}

func (s *CommandSink) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case text := <-s.queue:
			s.speak(text)
		}
	}
}

func (s *CommandSink) speak(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	args := append(append([]string(nil), s.args...), text)
	if err := s.run(ctx, s.name, args...); err != nil {
		s.log.WithError(err).WithField("text", text).Warn("speech command failed")
	}
}

// Close stops the worker. Queued utterances are discarded.
func (s *CommandSink) Close() error {
	s.once.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

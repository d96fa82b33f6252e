// Package viewer renders the result of a single health fetch as a terminal view.
//
// A Model moves from StateLoading to exactly one of StateSuccess or StateError and
// stays there. Each model is mounted with its own liveness token; results that arrive
// after Unmount, or for an older mount, are dropped.
package viewer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cerebrovinny/apihealth/internal/client"
	"github.com/Cerebrovinny/apihealth/internal/health"
)

// State is the view state of a Model.
type State int

const (
	StateLoading State = iota
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrUnhealthy is returned by Run and RunPlain when the view ends in StateError.
var ErrUnhealthy = errors.New("api unhealthy")

var mountSeq atomic.Uint64

type options struct {
	ctx      context.Context
	stayOpen bool
	input    io.Reader
	output   io.Writer
	inputSet bool
}

// Option configures a Model or a program run.
type Option func(*options)

// WithContext sets the parent of the mount's context.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithStayOpen keeps the program running after the fetch completes until the user quits.
func WithStayOpen(stay bool) Option {
	return func(o *options) { o.stayOpen = stay }
}

// WithInput sets the program input. A nil reader disables input.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
		o.inputSet = true
	}
}

// WithOutput sets the program output.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// mount is the liveness token captured by the fetch command.
type mount struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func (mt *mount) alive() bool {
	return mt != nil && mt.ctx.Err() == nil
}

type resultMsg struct {
	mountID uint64
	status  *health.Status
	err     error
}

// Model is a bubbletea model for one health fetch.
type Model struct {
	fetcher client.Fetcher
	opts    options
	spinner spinner.Model
	mount   *mount

	state   State
	status  *health.Status
	message string
}

// New returns a mounted Model in StateLoading. The fetch starts when the program calls Init.
func New(fetcher client.Fetcher, opts ...Option) Model {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(o.ctx)

	return Model{
		fetcher: fetcher,
		opts:    o,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		mount:   &mount{id: mountSeq.Add(1), ctx: ctx, cancel: cancel},
		state:   StateLoading,
	}
}

func (m Model) State() State { return m.state }

func (m Model) Status() *health.Status { return m.status }

func (m Model) Message() string { return m.message }

// Mounted reports whether the model still accepts fetch results.
func (m Model) Mounted() bool { return m.mount.alive() }

// Unmount tears the surface down. The in-flight request is canceled and its result ignored.
func (m Model) Unmount() Model {
	if m.mount != nil {
		m.mount.cancel()
	}
	return m
}

// Init starts the spinner and issues the single fetch for this mount.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	mt := m.mount
	fetcher := m.fetcher
	return func() tea.Msg {
		if fetcher == nil {
			return resultMsg{mountID: mt.id, err: errors.New("no fetcher configured")}
		}
		status, err := fetcher.FetchHealth(mt.ctx)
		return resultMsg{mountID: mt.id, status: status, err: err}
	}
}

// Update applies a message to the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m.Unmount(), tea.Quit
		}

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		return m.handleResult(msg)
	}

	return m, nil
}

func (m Model) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	if m.state != StateLoading || !m.mount.alive() || msg.mountID != m.mount.id {
		return m, nil
	}

	switch {
	case msg.err != nil:
		m.state = StateError
		m.message = msg.err.Error()
	case msg.status == nil:
		m.state = StateError
		m.message = "empty response"
	default:
		m.state = StateSuccess
		m.status = msg.status
	}

	if m.opts.stayOpen {
		return m, nil
	}
	return m, tea.Quit
}

// View renders the current state.
func (m Model) View() string {
	var b strings.Builder

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(txtLoading)
	case StateError:
		b.WriteString(errorStyle.Render(txtErrorPrefix + m.message))
	case StateSuccess:
		b.WriteString(titleStyle.Render(txtHeading))
		for _, f := range fields(m.status) {
			b.WriteString("\n  ")
			b.WriteString(keyStyle.Render(f.key + ":"))
			b.WriteString(" ")
			b.WriteString(valueStyle.Render(f.value))
		}
	}

	if m.opts.stayOpen {
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(txtHelp))
	}
	b.WriteString("\n")
	return b.String()
}

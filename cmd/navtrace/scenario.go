package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/navcore-dev/navcore/pkg/navcore"
	"github.com/navcore-dev/navcore/pkg/navcore/observer"
	"github.com/navcore-dev/navcore/pkg/navcore/router"
	"github.com/navcore-dev/navcore/pkg/navcore/routes"
	"github.com/navcore-dev/navcore/pkg/navcore/tracker"
)

var (
	errNoSteps      = errors.New("scenario has no steps")
	errUnknownOp    = errors.New("unknown step op")
	errNoVirtual    = errors.New("scenario declares no virtual navigator")
	errBadFlush     = errors.New("flush must be \"immediate\" or \"manual\"")
	errNothingToRun = errors.New("no flush is scheduled")
)

// Scenario is a scripted sequence of navigation events.
type Scenario struct {
	Name  string `toml:"name"`
	Root  string `toml:"root"`
	Flush string `toml:"flush"` // "immediate" (default) or "manual"

	Virtual *VirtualConfig `toml:"virtual"`
	Steps   []Step         `toml:"step"`
}

// VirtualConfig declares the virtual navigator the virtual_* steps drive.
type VirtualConfig struct {
	Initial string   `toml:"initial"`
	Routes  []string `toml:"routes"`
}

// Step is one scenario event.
type Step struct {
	Op       string         `toml:"op"`
	Route    string         `toml:"route"`
	Replace  bool           `toml:"replace"`
	Kind     string         `toml:"kind"`
	Duration time.Duration  `toml:"duration"`
	Index    int            `toml:"index"`
	Params   map[string]any `toml:"params"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a TOML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if _, err := toml.Decode(string(data), &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errNoSteps
	}
	if s.Root == "" {
		s.Root = string(routes.MainNavigatorWrapper)
	}
	switch s.Flush {
	case "":
		s.Flush = "immediate"
	case "immediate", "manual":
	default:
		return nil, fmt.Errorf("%w: %q", errBadFlush, s.Flush)
	}
	for i, step := range s.Steps {
		if _, ok := stepOps[step.Op]; !ok {
			return nil, fmt.Errorf("step %d: %w: %q", i+1, errUnknownOp, step.Op)
		}
		if strings.HasPrefix(step.Op, "virtual_") || step.Op == "pager_index" {
			if s.Virtual == nil {
				return nil, fmt.Errorf("step %d: %w", i+1, errNoVirtual)
			}
		}
	}
	return &s, nil
}

type paramDecoder func(data []byte) (routes.Params, error)

func decodeParams[T routes.Params](data []byte) (routes.Params, error) {
	var v T
	if _, err := toml.Decode(string(data), &v); err != nil {
		return nil, err
	}
	return v, nil
}

var paramDecoders = map[routes.Route]paramDecoder{
	routes.ExpandedAssetSheet:       decodeParams[routes.ExpandedAssetParams],
	routes.SendSheet:                decodeParams[routes.SendParams],
	routes.ExplainSheet:             decodeParams[routes.ExplainParams],
	routes.BackupSheet:              decodeParams[routes.BackupParams],
	routes.PositionSheet:            decodeParams[routes.PositionParams],
	routes.TransactionDetails:       decodeParams[routes.TransactionDetailsParams],
	routes.ExternalLinkWarningSheet: decodeParams[routes.ExternalLinkParams],
	routes.WalletConnectApproval:    decodeParams[routes.WalletConnectApprovalParams],
}

// buildParams turns a step's params table into the typed params of its
// route. The table is re-encoded and decoded into the route's params struct.
func buildParams(route routes.Route, raw map[string]any) (routes.Params, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	decode, ok := paramDecoders[route]
	if !ok {
		return nil, fmt.Errorf("route %s takes no params", route)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	return decode(buf.Bytes())
}

var actionKinds = map[string]tracker.ActionKind{
	"navigate": tracker.ActionNavigate,
	"replace":  tracker.ActionReplace,
	"go_back":  tracker.ActionGoBack,
	"reset":    tracker.ActionReset,
}

// player replays a Scenario against a Navigation bound to a Recorder.
type player struct {
	out      io.Writer
	nav      *navcore.Navigation
	recorder *tracker.Recorder
	virtual  *router.Navigator[string, any]
	now      time.Time
	flushes  []func()
	step     int
}

type stepFunc func(p *player, s Step) error

var stepOps map[string]stepFunc

func init() {
	stepOps = map[string]stepFunc{
		"bind": func(p *player, _ Step) error {
			p.nav.SetTopLevelNavigator(p.recorder)
			return nil
		},
		"unbind": func(p *player, _ Step) error {
			p.nav.SetTopLevelNavigator(nil)
			return nil
		},
		"navigate": func(p *player, s Step) error {
			route := routes.Route(s.Route)
			params, err := buildParams(route, s.Params)
			if err != nil {
				return err
			}
			if s.Replace {
				p.nav.Replace(route, params)
			} else {
				p.nav.Navigate(route, params)
			}
			return nil
		},
		"action": func(p *player, s Step) error {
			kind, ok := actionKinds[s.Kind]
			if !ok {
				return fmt.Errorf("unknown action kind %q", s.Kind)
			}
			p.nav.DispatchAction(tracker.Action{Kind: kind, Route: routes.Route(s.Route)})
			return nil
		},
		"go_back": func(p *player, _ Step) error {
			p.nav.GoBack()
			return nil
		},
		"will_pop": func(p *player, _ Step) error {
			p.nav.OnWillPop()
			return nil
		},
		"did_pop": func(p *player, _ Step) error {
			p.nav.OnDidPop()
			return nil
		},
		"flush": func(p *player, _ Step) error {
			if len(p.flushes) == 0 {
				return errNothingToRun
			}
			next := p.flushes[0]
			p.flushes = p.flushes[1:]
			next()
			return nil
		},
		"advance": func(p *player, s Step) error {
			p.now = p.now.Add(s.Duration)
			p.printf("clock +%s", s.Duration)
			return nil
		},
		"virtual_navigate": func(p *player, s Step) error {
			return p.virtual.Navigate(s.Route)
		},
		"virtual_back": func(p *player, _ Step) error {
			p.virtual.GoBack()
			return nil
		},
		"pager_index": func(p *player, s Step) error {
			return p.virtual.HandlePagerIndexChange(s.Index)
		},
	}
}

// Replay runs every step of s and writes a trace line per observable effect.
// It stops at the first failing step.
func Replay(s *Scenario, opts navcore.Options, out io.Writer) (*tracker.Recorder, error) {
	p := &player{
		out:      out,
		recorder: tracker.NewRecorder(routes.Route(s.Root)),
		now:      time.Unix(0, 0).UTC(),
	}
	opts.Clock = func() time.Time { return p.now }
	if s.Flush == "manual" {
		opts.Scheduler = func(flush func()) { p.flushes = append(p.flushes, flush) }
	}
	p.nav = navcore.Init(opts)
	p.recorder.OnDispatch = func(a tracker.Action) {
		if a.Route == "" {
			p.printf("dispatch %s", a.Kind)
			return
		}
		p.printf("dispatch %s %s", a.Kind, a.Route)
	}

	if s.Virtual != nil {
		changes := &observer.Registry[router.RouteChange[string]]{}
		changes.Subscribe(func(c router.RouteChange[string]) {
			dir := "forward"
			if c.Back {
				dir = "back"
			}
			p.printf("virtual %s -> %s (%s)", c.From, c.To, dir)
		})
		vn, err := navcore.NewVirtualNavigator(p.nav, router.Config[string, any]{
			InitialRoute: s.Virtual.Initial,
			Routes:       s.Virtual.Routes,
			Channel:      changes,
		})
		if err != nil {
			return nil, err
		}
		p.virtual = vn
	}

	for i, step := range s.Steps {
		p.step = i + 1
		if err := p.run(step); err != nil {
			return p.recorder, fmt.Errorf("step %d (%s): %w", p.step, step.Op, err)
		}
	}
	return p.recorder, nil
}

func (p *player) run(s Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	before := p.nav.Gate().Pending()
	if err := stepOps[s.Op](p, s); err != nil {
		return err
	}
	if after := p.nav.Gate().Pending(); after != before {
		p.printf("pending %d", after)
	}
	return nil
}

func (p *player) printf(format string, args ...any) {
	fmt.Fprintf(p.out, "%3d  %s\n", p.step, fmt.Sprintf(format, args...))
}

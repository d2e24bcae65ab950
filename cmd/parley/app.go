package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/parley"
	"github.com/fwojciec/parley/memory"
	"github.com/fwojciec/parley/simulator"
)

// app is the wired core: store, simulator and session sharing one executor.
type app struct {
	store   *memory.Store
	sim     *simulator.Simulator
	session *parley.Session
}

// newApp wires the core over exec. onDelivery, if set, runs on the serial
// context after the session has observed each delivery.
func newApp(cat parley.Catalogue, exec parley.Executor, cfg config, logger *log.Logger, onDelivery func(parley.Delivery)) (*app, error) {
	store, err := memory.NewStore(cat, memory.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	a := &app{store: store}
	opts := []simulator.Option{
		simulator.WithLogger(logger),
		simulator.WithActiveResolver(func() parley.ConversationID {
			return a.session.CurrentConversationID()
		}),
		simulator.WithNotifier(func(d parley.Delivery) {
			a.session.Observe(d)
			if onDelivery != nil {
				onDelivery(d)
			}
		}),
	}
	if cfg.SeedSet {
		opts = append(opts, simulator.WithSeed(cfg.Seed))
	}
	a.sim, err = simulator.New(store, exec, cat, opts...)
	if err != nil {
		return nil, err
	}

	a.session, err = parley.NewSession(store, a.sim,
		parley.WithLocalUser(cat.LocalUser),
		parley.WithSessionLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// conversationName returns the display name of id, or a placeholder for a
// conversation that no longer exists.
func (a *app) conversationName(id parley.ConversationID) string {
	for _, c := range a.store.Conversations() {
		if c.ID == id {
			return c.DisplayName
		}
	}
	return fmt.Sprintf("conversation %d", id)
}

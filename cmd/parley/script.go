package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/parley"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const transcriptTimeLayout = "15:04"

func newScriptCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "script [file]",
		Short: "Drive a session headlessly",
		Long: `Read intents line by line from file (or stdin) and apply them to a session:

  /switch <id>              make conversation <id> active
  /new <name> [| subtitle]  create a conversation and make it active
  /remove <id>              delete a conversation
  /fav <n>                  star or unstar message <n> of the active conversation
  /jump <k>                 switch to the conversation of favorite <k>
  /wait                     wait until every pending reply has landed
  # comment                 ignored

Anything else is sent as a message. Deliveries are printed as they land and
every transcript is printed once all replies have arrived, followed by the
starred messages.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runScript(cmd.Context(), loadConfig(v), in, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runScript applies the intents read from in on a parley.Loop. All output is
// written from the loop goroutine.
func runScript(ctx context.Context, cfg config, in io.Reader, out, errOut io.Writer) error {
	logger, closeLog, err := newLogger(cfg, errOut)
	if err != nil {
		return err
	}
	defer closeLog()

	cat, err := loadCatalogue(cfg)
	if err != nil {
		return err
	}

	loop := parley.NewLoop(parley.WithLoopLogger(logger))
	var a *app
	a, err = newApp(cat, loop, cfg, logger, func(d parley.Delivery) {
		fmt.Fprintf(out, "<- %s (#%d): %s\n", a.conversationName(d.ConversationID), d.ConversationID, d.Message.Body)
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)
	g.Go(func() error {
		if err := loop.Run(loopCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer stopLoop()
		d := &scriptDriver{app: a, loop: loop, out: out, logger: logger}
		return d.run(gctx, in)
	})
	return g.Wait()
}

type scriptDriver struct {
	app    *app
	loop   *parley.Loop
	out    io.Writer
	logger *log.Logger
}

func (d *scriptDriver) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if parley.IsBlank(line) || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if err := d.step(ctx, lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	if err := d.wait(ctx); err != nil {
		return err
	}
	return d.loop.Do(ctx, d.printTranscripts)
}

// step applies one line. Intent errors are reported and the script goes on;
// only a stopped loop or a cancelled context ends it.
func (d *scriptDriver) step(ctx context.Context, lineNo int, line string) error {
	intent, err := parley.ParseIntent(line)
	if err == nil && intent.Kind == parley.IntentWait {
		return d.wait(ctx)
	}
	return d.loop.Do(ctx, func() {
		var msg *parley.Message
		if err == nil {
			msg, err = d.app.session.Apply(intent)
		}
		if err != nil {
			d.logger.Warn("intent failed", "line", lineNo, "err", err)
			fmt.Fprintf(d.out, "!! line %d: %v\n", lineNo, err)
			return
		}
		if msg != nil {
			id := d.app.session.CurrentConversationID()
			fmt.Fprintf(d.out, "-> %s (#%d): %s\n", d.app.conversationName(id), id, msg.Body)
		}
	})
}

// wait blocks until no reply is pending.
func (d *scriptDriver) wait(ctx context.Context) error {
	select {
	case <-d.app.sim.Drained():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *scriptDriver) printTranscripts() {
	for _, c := range d.app.session.Conversations() {
		fmt.Fprintf(d.out, "\n== %s (#%d) ==\n", c.DisplayName, c.ID)
		history, err := d.app.session.History(c.ID)
		if err != nil {
			fmt.Fprintf(d.out, "!! %v\n", err)
			continue
		}
		for _, m := range history {
			star := ""
			if d.app.session.IsFavorite(m.ID) {
				star = "★ "
			}
			fmt.Fprintf(d.out, "%s[%s] %s: %s\n", star, m.SentAt.Format(transcriptTimeLayout), m.Sender, m.Body)
		}
	}

	favs := d.app.session.Favorites()
	if len(favs) == 0 {
		return
	}
	fmt.Fprintf(d.out, "\n== Favorites ==\n")
	for i, f := range favs {
		fmt.Fprintf(d.out, "%d. %s (#%d) [%s] %s: %s\n", i+1, d.app.conversationName(f.ConversationID), f.ConversationID,
			f.Message.SentAt.Format(transcriptTimeLayout), f.Message.Sender, f.Message.Body)
	}
}

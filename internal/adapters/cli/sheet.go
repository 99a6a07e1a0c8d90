package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/prun-ccc/internal/application/common"
	"github.com/andrescamacho/prun-ccc/internal/application/planning"
	"github.com/andrescamacho/prun-ccc/internal/application/pricing"
	"github.com/andrescamacho/prun-ccc/internal/application/sheet"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

const sheetHelp = `commands:
  <plan-link>             load a plan shared from PrUn Planner
  plan <plan-link>        same as above
  set TICKER=QUANTITY     override a quantity (empty quantity clears it)
  clear TICKER            clear an override
  load FRAGMENT           replace overrides with a fragment's quantities
  fragment                print the current fragment
  reload                  fetch prices again
  show                    print the sheet
  help                    print this help
  quit                    leave`

// NewSheetCommand creates the interactive sheet command
func NewSheetCommand() *cobra.Command {
	var (
		fragment string
		noCore   bool
	)

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Interactive cost sheet",
		Long: `Open an interactive cost sheet. Prices load in the background; paste a plan
link to compute its materials, then adjust quantities with set and clear.
The sheet is printed again after every change.

Plans load asynchronously. When several are submitted, only the most recent
one to complete is kept and late results of older submissions are dropped.

Examples:
  ccc sheet
  ccc sheet --fragment 'BSE=32&MCG=124'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(a.context(cmd.Context()))
			defer cancel()

			s := newSheetSession(a, cmd.OutOrStdout(), noCore)
			if fragment != "" {
				s.pendingFragment = fragment
			}
			if err := s.run(ctx, cmd.InOrStdin()); err != nil {
				return err
			}
			return a.finish(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&fragment, "fragment", "", "Restore quantities from a fragment once prices are loaded")
	cmd.Flags().BoolVar(&noCore, "no-core", false, "Leave out the core building")

	return cmd
}

type priceResult struct {
	seq    uint64
	result *pricing.GetPriceTableResponse
	err    error
}

type quoteResult struct {
	seq   uint64
	quote *planning.Quote
	err   error
}

// sheetSession owns the sheet state. Only the run loop goroutine touches it;
// fetches run in their own goroutines and report back over channels.
type sheetSession struct {
	app    *app
	out    io.Writer
	noCore bool

	state           *sheet.State
	priceLoads      *planning.Session[*pricing.GetPriceTableResponse]
	quotes          *planning.Session[*planning.Quote]
	pendingFragment string

	prices chan priceResult
	quoted chan quoteResult
}

func newSheetSession(a *app, out io.Writer, noCore bool) *sheetSession {
	return &sheetSession{
		app:        a,
		out:        out,
		noCore:     noCore,
		state:      sheet.NewState(),
		priceLoads: planning.NewSession[*pricing.GetPriceTableResponse](),
		quotes:     planning.NewSession[*planning.Quote](),
		prices:     make(chan priceResult),
		quoted:     make(chan quoteResult),
	}
}

// run reads commands from in until quit or end of input
func (s *sheetSession) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	s.loadPrices(ctx)
	s.render()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := s.handle(ctx, strings.TrimSpace(line)); quit {
				return nil
			}

		case res := <-s.prices:
			s.applyPrices(res)
			s.render()

		case res := <-s.quoted:
			s.applyQuote(ctx, res)
			s.render()
		}
	}
}

// handle executes one command line and reports whether the session should end
func (s *sheetSession) handle(ctx context.Context, line string) bool {
	if line == "" {
		return false
	}
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, sheetHelp)
	case "show":
		s.render()
	case "fragment":
		fmt.Fprintf(s.out, "#%s\n", s.state.Fragment())
	case "reload":
		s.loadPrices(ctx)
		s.render()
	case "plan":
		s.submit(ctx, rest)
	case "set":
		ticker, value, ok := strings.Cut(rest, "=")
		if !ok {
			ticker, value, _ = strings.Cut(rest, " ")
		}
		s.mutate(s.state.SetOverride(strings.TrimSpace(ticker), value))
	case "clear":
		s.mutate(s.state.ClearOverride(rest))
	case "load":
		if s.state.Prices() == nil {
			s.pendingFragment = rest
			fmt.Fprintln(s.out, "prices are still loading; the fragment is applied once they arrive")
			return false
		}
		s.state.LoadFragment(rest)
		s.render()
	default:
		if strings.Contains(command, "://") {
			s.submit(ctx, line)
			return false
		}
		fmt.Fprintf(s.out, "unknown command %q, type help\n", command)
	}
	return false
}

// mutate prints a validation error or re-renders after a successful change
func (s *sheetSession) mutate(err error) {
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.render()
}

func (s *sheetSession) loadPrices(ctx context.Context) {
	seq := s.priceLoads.Begin()
	go func() {
		result, err := s.app.prices(ctx)
		select {
		case s.prices <- priceResult{seq: seq, result: result, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *sheetSession) applyPrices(res priceResult) {
	if res.err != nil {
		if s.priceLoads.Fail(res.seq, res.err) {
			s.state.SetPricesError(res.err)
		}
		return
	}
	if !s.priceLoads.Commit(res.seq, res.result) {
		return
	}
	s.state.SetPrices(res.result.Table, res.result.Warnings)
	if s.pendingFragment != "" {
		s.state.LoadFragment(s.pendingFragment)
		s.pendingFragment = ""
	}
}

func (s *sheetSession) submit(ctx context.Context, link string) {
	prices := s.state.Prices()
	if prices == nil {
		fmt.Fprintln(s.out, "prices are not loaded yet, try again shortly")
		return
	}

	seq := s.quotes.Begin()
	s.state.BeginQuote()
	s.render()

	go func() {
		quote, err := s.app.quote(ctx, &planning.CalculateQuoteQuery{Link: link, Prices: prices, SkipCore: s.noCore})
		select {
		case s.quoted <- quoteResult{seq: seq, quote: quote, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *sheetSession) applyQuote(ctx context.Context, res quoteResult) {
	logger := common.LoggerFromContext(ctx)

	var kept bool
	if res.err != nil {
		kept = s.quotes.Fail(res.seq, res.err)
		if kept {
			if shared.IsValidationError(res.err) {
				s.state.SetQuoteError(fmt.Errorf("invalid plan link: %w", res.err))
			} else {
				s.state.SetQuoteError(res.err)
			}
		}
	} else {
		kept = s.quotes.Commit(res.seq, res.quote)
		if kept {
			s.state.ApplyQuote(res.quote)
		}
	}

	if !kept {
		logger.Log("info", "dropped stale plan result", map[string]interface{}{
			"sequence":  res.seq,
			"committed": s.quotes.Committed(),
		})
	}
	if s.quotes.Pending() {
		s.state.BeginQuote()
	}
}

func (s *sheetSession) render() {
	if err := writeView(s.out, formatTable, sheet.Render(s.state)); err != nil {
		fmt.Fprintln(s.out, err)
	}
	fmt.Fprintln(s.out)
}

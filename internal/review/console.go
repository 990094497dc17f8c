package review

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"

	"catalognorm/internal/models"
)

// API is the subset of Client used by the console.
type API interface {
	ReviewQueue(ctx context.Context, limit int) (*models.ReviewQueueResponse, error)
	SubmitFeedback(ctx context.Context, productID int64, approved bool, correction *string) (*models.Feedback, error)
	Retrain(ctx context.Context) (*models.RetrainAcceptedResponse, error)
	ReloadModel(ctx context.Context) (*models.ModelInfoResponse, error)
}

// Console is an interactive review session.
type Console struct {
	api       API
	in        *bufio.Scanner
	out       io.Writer
	batchSize int

	queue   []models.Product
	pending int64
	skipped map[int64]bool

	heading *color.Color
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	faint   *color.Color
}

// NewConsole creates a console reading commands from in and writing to out.
func NewConsole(api API, in io.Reader, out io.Writer, batchSize int) *Console {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &Console{
		api:       api,
		in:        bufio.NewScanner(in),
		out:       out,
		batchSize: batchSize,
		skipped:   make(map[int64]bool),
		heading:   color.New(color.FgCyan, color.Bold),
		success:   color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		fail:      color.New(color.FgRed),
		faint:     color.New(color.Faint),
	}
}

const help = `commands:
  a, approve          accept the suggested value
  c, correct <text>   replace the value with <text>
  s, skip             leave this product for later
  l, list             show the loaded queue
  r, reload           reload the model artifact
  t, retrain          start a background retrain
  q, quit             exit
`

// Run loops until the queue is empty, the input ends or the user quits.
func (c *Console) Run(ctx context.Context) error {
	if err := c.refill(ctx); err != nil {
		return err
	}
	fmt.Fprint(c.out, help)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, ok := c.current()
		if !ok {
			if err := c.refill(ctx); err != nil {
				return err
			}
			if current, ok = c.current(); !ok {
				c.success.Fprintln(c.out, "nothing left to review")
				return nil
			}
		}

		c.show(current)
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}

		quit, err := c.dispatch(ctx, current, strings.TrimSpace(c.in.Text()))
		if err != nil {
			c.fail.Fprintf(c.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (c *Console) dispatch(ctx context.Context, p models.Product, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "a", "approve":
		return false, c.submit(ctx, p, true, nil)
	case "c", "correct":
		if arg == "" {
			return false, errors.New("correct needs a value")
		}
		return false, c.submit(ctx, p, false, &arg)
	case "s", "skip":
		c.skipped[p.ID] = true
		c.pop()
	case "l", "list":
		c.list()
	case "r", "reload":
		info, err := c.api.ReloadModel(ctx)
		if err != nil {
			return false, err
		}
		c.success.Fprintf(c.out, "model reloaded: %d classes\n", info.Classes)
	case "t", "retrain":
		res, err := c.api.Retrain(ctx)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			c.warn.Fprintln(c.out, "a retrain is already running")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		c.success.Fprintf(c.out, "%s (run %s)\n", res.Message, res.RunID)
	case "q", "quit", "exit":
		return true, nil
	case "", "h", "help", "?":
		fmt.Fprint(c.out, help)
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, nil
}

func (c *Console) submit(ctx context.Context, p models.Product, approved bool, correction *string) error {
	if _, err := c.api.SubmitFeedback(ctx, p.ID, approved, correction); err != nil {
		return err
	}
	if correction != nil {
		c.success.Fprintf(c.out, "corrected #%d to %q\n", p.ID, *correction)
	} else {
		c.success.Fprintf(c.out, "approved #%d\n", p.ID)
	}
	c.pending--
	c.pop()
	return nil
}

func (c *Console) refill(ctx context.Context) error {
	res, err := c.api.ReviewQueue(ctx, c.batchSize+len(c.skipped))
	if err != nil {
		return fmt.Errorf("failed to load review queue: %w", err)
	}
	c.pending = res.Pending
	c.queue = c.queue[:0]
	for _, p := range res.Products {
		if !c.skipped[p.ID] {
			c.queue = append(c.queue, p)
		}
	}
	return nil
}

func (c *Console) current() (models.Product, bool) {
	if len(c.queue) == 0 {
		return models.Product{}, false
	}
	return c.queue[0], true
}

func (c *Console) pop() {
	if len(c.queue) > 0 {
		c.queue = c.queue[1:]
	}
}

func (c *Console) show(p models.Product) {
	fmt.Fprintln(c.out)
	c.heading.Fprintf(c.out, "#%d  %s\n", p.ID, p.Text)
	if v := p.DisplayValue(); v != "" {
		fmt.Fprintf(c.out, "  suggestion: %s ", v)
		c.faint.Fprintf(c.out, "(%s, %.2f)\n", p.SourceStage, p.Confidence)
	} else {
		c.warn.Fprintln(c.out, "  no suggestion")
	}
	c.faint.Fprintf(c.out, "  %d pending\n", c.pending)
}

func (c *Console) list() {
	if len(c.queue) == 0 {
		c.faint.Fprintln(c.out, "queue is empty")
		return
	}
	for _, p := range c.queue {
		fmt.Fprintf(c.out, "  #%-6d %-40s %s\n", p.ID, p.Text, p.DisplayValue())
	}
}

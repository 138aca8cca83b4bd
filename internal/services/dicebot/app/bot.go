package app

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/dicebot/internal/core/dice"
	apperrors "github.com/louisbranch/dicebot/internal/platform/errors"
	"github.com/louisbranch/dicebot/internal/platform/i18n/catalog"
	"github.com/louisbranch/dicebot/internal/platform/timeouts"
	"github.com/louisbranch/dicebot/internal/random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"
)

const tracerName = "github.com/louisbranch/dicebot/internal/services/dicebot/app"

// Randomness is the shared generator a bot draws from: whole rolls go
// through Do and single draws use IntRange.
type Randomness interface {
	dice.Locker
	random.Source
}

// BotConfig wires a Bot.
type BotConfig struct {
	Transport Transport
	Random    Randomness
	// Prefix must lead every dice expression when set.
	Prefix string
	// Locale selects reply language; unknown locales fall back to en-US.
	Locale string
	Logf   func(string, ...any)
}

// Bot answers chat messages with dice rolls.
type Bot struct {
	transport Transport
	random    Randomness
	prefix    string
	locale    string
	printer   *message.Printer
	renderer  dice.Renderer
	tracer    trace.Tracer
	logf      func(string, ...any)
	wg        sync.WaitGroup
}

// NewBot validates cfg and returns a Bot.
func NewBot(cfg BotConfig) (*Bot, error) {
	if cfg.Transport == nil {
		return nil, errors.New("transport is required")
	}
	if cfg.Random == nil {
		return nil, errors.New("random source is required")
	}
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}
	renderer := dice.NewCatalogRenderer(cfg.Locale)
	return &Bot{
		transport: cfg.Transport,
		random:    cfg.Random,
		prefix:    cfg.Prefix,
		locale:    renderer.Locale(),
		printer:   catalog.Default().Printer(renderer.Locale()),
		renderer:  renderer,
		tracer:    otel.Tracer(tracerName),
		logf:      logf,
	}, nil
}

// Locale returns the resolved reply locale.
func (b *Bot) Locale() string {
	return b.locale
}

// Commands lists the commands the bot answers, described in its locale.
func (b *Bot) Commands() []Command {
	return []Command{
		{Name: commandStart, Description: b.printer.Sprintf("bot.command.start")},
		{Name: commandHelp, Description: b.printer.Sprintf("bot.command.help")},
		{Name: commandYesOrNo, Description: b.printer.Sprintf("bot.command.yesorno")},
	}
}

// Run publishes the command menu and handles updates until ctx ends or the
// transport closes the stream. ready, when non-nil, is called once the
// update loop is running.
func (b *Bot) Run(ctx context.Context, ready func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := b.transport.SetCommands(ctx, b.Commands()); err != nil {
		b.logf("register commands: %v", err)
	}

	updates := b.transport.Updates(ctx)
	if ready != nil {
		ready()
	}
	b.logf("dice bot handling updates (locale %s, prefix %q)", b.locale, b.prefix)
	for msg := range updates {
		b.wg.Add(1)
		go func(msg Message) {
			defer b.wg.Done()
			b.Handle(ctx, msg)
		}(msg)
	}
	b.transport.Stop()
	b.wait()
	return nil
}

// wait blocks until in-flight handlers finish or the shutdown window passes.
func (b *Bot) wait() {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeouts.Shutdown):
		b.logf("dice bot stopped with handlers still running")
	}
}

// Handle answers one message. Failures are logged and never propagate, so a
// single bad message cannot stop the update loop.
func (b *Bot) Handle(ctx context.Context, msg Message) {
	ctx, span := b.tracer.Start(ctx, "dicebot.handle",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.Int64("dicebot.chat_id", msg.ChatID),
			attribute.Bool("dicebot.private", msg.Private),
			attribute.String("dicebot.command", msg.Command),
		),
	)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, "panic")
			b.logf("panic handling message %d in chat %d: %v\n%s", msg.MessageID, msg.ChatID, r, debug.Stack())
		}
	}()

	text, ok := b.Respond(ctx, msg)
	if !ok {
		return
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeouts.Send)
	defer cancel()
	if err := b.transport.Send(sendCtx, Reply{ChatID: msg.ChatID, ReplyTo: msg.MessageID, Text: text}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send reply")
		b.logf("send reply to chat %d: %v", msg.ChatID, err)
	}
}

// Respond computes the reply for msg. ok is false when the bot stays silent.
func (b *Bot) Respond(ctx context.Context, msg Message) (string, bool) {
	if msg.Text == "" {
		return "", false
	}
	switch msg.Command {
	case commandStart, commandHelp:
		return b.help(), true
	case commandYesOrNo:
		return b.yesOrNo(msg.Args)
	}
	return b.roll(ctx, msg)
}

func (b *Bot) roll(ctx context.Context, msg Message) (string, bool) {
	span := trace.SpanFromContext(ctx)

	text := msg.Text
	if b.prefix != "" {
		stripped, found := strings.CutPrefix(text, b.prefix)
		if !found {
			if msg.Private {
				return b.printer.Sprintf("bot.syntax_error"), true
			}
			return "", false
		}
		text = stripped
	}

	result, ok, err := dice.Roll(text, b.random, b.renderer)
	if !ok {
		if msg.Private || b.prefix != "" {
			return b.printer.Sprintf("bot.syntax_error"), true
		}
		return "", false
	}
	span.SetAttributes(attribute.String("dicebot.notation", text))
	if err != nil {
		kind := apperrors.KindOf(err)
		span.SetAttributes(attribute.String("dicebot.error_kind", kind.String()))
		if kind == apperrors.KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, "roll")
		}
		b.logf("roll %q in chat %d: %s error: %v", text, msg.ChatID, kind, err)
		return apperrors.UserMessage(err, b.locale), true
	}

	req := result.Request
	span.SetAttributes(
		attribute.Int("dicebot.count", req.Count),
		attribute.Int("dicebot.dimension", req.Dimension),
		attribute.Int("dicebot.fixes", len(req.Fixes)),
	)
	b.logf("rolled %dd%d with %d fixes in chat %d", req.Count, req.Dimension, len(req.Fixes), msg.ChatID)
	return result.Text, true
}

func (b *Bot) yesOrNo(title string) (string, bool) {
	value, err := b.random.IntRange(0, 1)
	if err != nil {
		b.logf("yesorno draw: %v", err)
		return apperrors.UserMessage(err, b.locale), true
	}
	answer := b.printer.Sprintf("bot.yes")
	if value != 0 {
		answer = b.printer.Sprintf("bot.no")
	}
	if title = strings.TrimSpace(title); title != "" {
		return b.renderer.Title(html.EscapeString(title)) + "\n\n" + answer, true
	}
	return answer, true
}

func (b *Bot) help() string {
	var sb strings.Builder
	sb.WriteString(b.printer.Sprintf("bot.help"))
	for i, command := range b.Commands() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "/%s — %s", command.Name, command.Description)
	}
	return sb.String()
}

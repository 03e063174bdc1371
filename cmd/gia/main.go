// Command gia runs a local stylist session in the terminal: it scores an
// outfit photo, then answers follow-up questions about it.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gia-fashion/stylist-platform/internal/config"
	"github.com/gia-fashion/stylist-platform/internal/llm"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/service"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

const localUser = "local"

func main() {
	photo := flag.String("photo", "", "path to the outfit photo to analyze")
	occasion := flag.String("occasion", "", "occasion: casual, work, date, party, gym, church or free text")
	verbose := flag.Bool("verbose", false, "log pipeline details to stderr")
	flag.Parse()

	if *photo == "" {
		fmt.Fprintln(os.Stderr, "usage: gia -photo outfit.jpg [-occasion work]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *photo, *occasion); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, photoPath, occasion string) error {
	provider, err := llm.NewClient(llm.Config{
		Provider: llm.Provider(cfg.LLMProvider),
		APIKey:   cfg.LLMAPIKey(),
		BaseURL:  cfg.OpenAIBaseURL,
		Model:    cfg.Model,
		Referer:  cfg.AppURL,
		Title:    cfg.AppTitle,
	})
	if err != nil {
		return err
	}
	client := llm.WithResilience(provider, llm.Options{
		Timeout:   cfg.CompletionTimeout,
		Retries:   cfg.CompletionRetries,
		RetryWait: cfg.CompletionRetryWait,
	}, log)

	mem := store.NewMemory()
	sessions := service.NewSessionService(mem, mem, log)
	guard := service.NewInFlightGuard(mem, cfg.InFlightTTL, log)
	analysis := service.NewAnalysisService(service.AnalysisDeps{
		Sessions: sessions, Wardrobe: mem, Outfits: mem, Events: mem,
		LLM: client, Guard: guard, Model: cfg.Model, AmazonTag: cfg.AmazonTag, Logger: log,
	})
	chat := service.NewChatService(service.ChatDeps{
		Sessions: sessions, Turns: mem, Events: mem,
		LLM: client, Guard: guard, Model: cfg.Model, AmazonTag: cfg.AmazonTag, Logger: log,
	})

	d := newDisplay(os.Stdout)
	d.welcome(cfg.Model, occasion)

	img, err := loadPhoto(photoPath, cfg.MaxImageBytes)
	if err != nil {
		return err
	}

	d.info("Looking at your outfit...")
	first, err := analysis.Analyze(ctx, service.AnalyzeInput{UserID: localUser, Occasion: occasion, Image: img})
	if err != nil {
		if llm.IsFailure(err) {
			d.warn(service.FallbackMessage)
		}
		return err
	}
	score := first.Analysis.Score
	d.reply(first.Analysis.ChatResponse, &score, first.ShoppingURL)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		d.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		in := service.ChatInput{UserID: localUser, SessionID: first.SessionID, Message: line}
		switch {
		case line == "":
			continue
		case line == "/exit" || line == "/quit":
			return nil
		case strings.HasPrefix(line, "/photo "):
			path, text, _ := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "/photo ")), " ")
			if in.NewImage, err = loadPhoto(path, cfg.MaxImageBytes); err != nil {
				d.fail(err)
				continue
			}
			in.Message = text
		}

		resp, err := chat.Send(ctx, in)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if llm.IsFailure(err) {
				d.warn(service.FallbackMessage)
			} else {
				d.fail(err)
			}
			continue
		}

		d.reply(resp.Response, resp.Score, resp.ShoppingURL)
	}
}

// loadPhoto reads an image file and inlines it as a data URL.
func loadPhoto(path string, maxBytes int64) (*model.ImageRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("photo is larger than %d bytes", maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%s is not an image (%s)", path, mediaType)
	}
	return model.NewImageRef(model.EncodeDataURL(mediaType, data)), nil
}

// Package main is the interactive console for the chronicle.
//
// It drives the refinement protocol directly against the diary service: a
// generated entry is shown, and if the user isn't satisfied the old entry is
// deleted and regenerated with their feedback — as many rounds as it takes.
// Only the accepted version survives; superseded drafts are gone for good.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/chronicle/internal/config"
	"github.com/sakif/chronicle/internal/diary"
	"github.com/sakif/chronicle/internal/gateway/gemini"
	"github.com/sakif/chronicle/internal/model"
	sqliteRepo "github.com/sakif/chronicle/internal/repository/sqlite"
	"github.com/sakif/chronicle/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Log warnings and worse to stderr so the conversation on stdout stays clean.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY not set")
	}

	ctx := context.Background()

	completer, err := gemini.New(ctx, cfg.APIKey, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	engine := diary.NewEngine(completer, cfg.Gateway, logger)
	svc := service.NewDiaryService(db, db, engine, logger)

	fmt.Println("\nWelcome to Chronicle - AI Ghostwriter")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Transform your conversations into literary diary entries!")

	recent, err := svc.ListEntries(ctx, model.DefaultUsername, 5)
	if err != nil {
		return err
	}
	fmt.Printf("\nYou have %d recent entries in your chronicle\n", len(recent))

	in := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("\nOptions:")
		fmt.Println("1. Write new diary entry")
		fmt.Println("2. Extract entities from text")
		fmt.Println("3. View recent entries")
		fmt.Println("4. Exit")

		choice := prompt(in, "\nChoose an option (1-4): ")

		switch choice {
		case "1":
			if err := writeEntry(ctx, in, svc); err != nil {
				fmt.Println("error:", err)
			}
		case "2":
			if err := extract(ctx, in, svc); err != nil {
				fmt.Println("error:", err)
			}
		case "3":
			if err := showRecent(ctx, svc); err != nil {
				fmt.Println("error:", err)
			}
		case "4":
			fmt.Println("\nGoodbye!")
			return nil
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

// writeEntry runs one full generation plus the refinement loop.
func writeEntry(ctx context.Context, in *bufio.Reader, svc *service.DiaryService) error {
	fmt.Println("\nEnter your notes (type 'END' on a new line when done):")
	input := readMultiline(in)
	if strings.TrimSpace(input) == "" {
		fmt.Println("No input provided.")
		return nil
	}

	fmt.Println("\nGenerating your diary entry with context...")
	entry, err := svc.Generate(ctx, input, model.DefaultUsername, nil, service.DefaultContextWindow)
	if err != nil {
		return err
	}
	fmt.Println("---\n" + entry.GeneratedDiary + "\n---")

	// Refinement loop: rejecting a draft deletes it and regenerates with
	// the feedback folded into the prompt. No iteration limit.
	for {
		answer := prompt(in, "\nSatisfied with this entry? (yes/no/feedback): ")

		switch strings.ToLower(answer) {
		case "yes", "y":
			fmt.Printf("Entry %s saved to your chronicle.\n", entry.ID)
			return nil
		case "no", "n":
			fmt.Println("\nWhat should I change?")
			feedback := prompt(in, "> ")
			if feedback == "" {
				continue
			}
			entry, err = regenerate(ctx, svc, entry.ID, input, feedback)
			if err != nil {
				return err
			}
		default:
			// Anything else is treated as feedback directly.
			entry, err = regenerate(ctx, svc, entry.ID, input, answer)
			if err != nil {
				return err
			}
		}
	}
}

// regenerate is one turn of the refinement protocol: delete the rejected
// draft, then generate again with feedback.
func regenerate(ctx context.Context, svc *service.DiaryService, oldID, input, feedback string) (*model.Entry, error) {
	fmt.Println("\nRegenerating...")
	if err := svc.DeleteEntry(ctx, oldID); err != nil {
		return nil, err
	}
	entry, err := svc.Generate(ctx, input, model.DefaultUsername, &feedback, service.DefaultContextWindow)
	if err != nil {
		return nil, err
	}
	fmt.Println("---\n" + entry.GeneratedDiary + "\n---")
	return entry, nil
}

func extract(ctx context.Context, in *bufio.Reader, svc *service.DiaryService) error {
	fmt.Println("\nEnter text to extract entities (type 'END' on a new line when done):")
	input := readMultiline(in)
	if strings.TrimSpace(input) == "" {
		fmt.Println("No input provided.")
		return nil
	}

	fmt.Println("\nExtracting entities...")
	result, err := svc.ExtractEntities(ctx, input)
	if err != nil {
		return err
	}
	fmt.Println("---\n" + result + "\n---")
	return nil
}

func showRecent(ctx context.Context, svc *service.DiaryService) error {
	entries, err := svc.ListEntries(ctx, model.DefaultUsername, 10)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("\nNo entries yet. Start writing!")
		return nil
	}

	fmt.Printf("\nYour Recent Entries (%d):\n\n", len(entries))
	for _, e := range entries {
		preview := strings.ReplaceAll(e.GeneratedDiary, "\n", " ")
		if len(preview) > 100 {
			preview = preview[:100]
		}
		fmt.Printf("  [%s] %s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("      %s...\n\n", preview)
	}
	return nil
}

// prompt prints a prompt and reads one trimmed line.
func prompt(in *bufio.Reader, text string) string {
	fmt.Print(text)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// readMultiline collects lines until a line containing only END.
func readMultiline(in *bufio.Reader) string {
	var lines []string
	for {
		line, err := in.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.EqualFold(strings.TrimSpace(trimmed), "END") || err != nil {
			break
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, "\n")
}

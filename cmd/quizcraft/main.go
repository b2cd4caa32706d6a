package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"quizcraft"
)

func main() {
	var (
		topic      = flag.String("topic", "", "Quiz topic (prompted for if omitted)")
		difficulty = flag.String("difficulty", quizcraft.DifficultyBeginner, "Difficulty level (Beginner, Intermediate, Advanced)")
		secrets    = flag.String("secrets", quizcraft.DefaultSecretsFile, "Path to JSON secrets file")
		dbPath     = flag.String("db", "", "Optional sqlite file to archive completed quizzes")
		logDir     = flag.String("log", "", "Optional directory for session transcripts")
		verbose    = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	quizcraft.SetVerbose(*verbose)

	scanner := bufio.NewScanner(os.Stdin)

	apiKey, err := quizcraft.ResolveAPIKey(*secrets)
	if err != nil {
		fmt.Println(quizcraft.MissingKeyMessage(*secrets))
		apiKey = promptLine(scanner, "Enter your OpenAI API key: ")
		if apiKey == "" {
			log.Fatal(quizcraft.ErrMissingAPIKey)
		}
	}

	var archive *quizcraft.Archive
	if *dbPath != "" {
		archive, err = quizcraft.OpenArchive(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer archive.Close()
	}

	client := quizcraft.NewOpenAIClient(apiKey)
	session := quizcraft.NewSession(client)

	if *logDir != "" {
		transcript, err := quizcraft.NewTranscript(*logDir, fmt.Sprintf("cli-%d", time.Now().Unix()))
		if err != nil {
			log.Printf("Transcript disabled: %v", err)
		} else {
			session.SetTranscript(transcript)
			defer transcript.Close()
		}
	}

	quizTopic := *topic
	quizDifficulty := normalizeDifficulty(*difficulty)

	for {
		if quizTopic == "" {
			quizTopic = promptLine(scanner, "Enter a quiz topic (e.g., Python, Space, History): ")
			if quizTopic == "" {
				fmt.Println("A topic is required.")
				continue
			}
		}

		fmt.Printf("⏳ Generating a %s quiz on %q... (this may take a moment)\n\n", strings.ToLower(quizDifficulty), quizTopic)

		if err := generateWithRetry(scanner, session, quizTopic, quizDifficulty); err != nil {
			log.Fatalf("Failed to generate quiz: %v", err)
		}

		runQuiz(scanner, session)

		report, err := session.Submit()
		if err != nil {
			log.Fatalf("Failed to submit quiz: %v", err)
		}

		printReport(report)

		if archive != nil {
			id, err := archive.SaveAttempt(session.Snapshot(), report)
			if err != nil {
				log.Printf("Failed to archive attempt: %v", err)
			} else {
				fmt.Printf("📦 Saved attempt %s\n", id)
			}
		}

		answer := promptLine(scanner, "\nStart a new quiz? (y/n): ")
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return
		}

		session.Reset()
		quizTopic = ""
	}
}

// generateWithRetry runs the generate action, letting the user retry on
// completion or parse failures instead of losing the run.
func generateWithRetry(scanner *bufio.Scanner, session *quizcraft.Session, topic, difficulty string) error {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := session.Generate(ctx, topic, difficulty)
		cancel()

		if err == nil {
			return nil
		}

		fmt.Printf("❌ %v\n", err)
		answer := promptLine(scanner, "Try again? (y/n): ")
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return err
		}
	}
}

func runQuiz(scanner *bufio.Scanner, session *quizcraft.Session) {
	view := session.Snapshot()

	for i, q := range view.Questions {
		fmt.Printf("Question %d/%d:\n", i+1, len(view.Questions))
		fmt.Printf("%s\n", q.Text)
		for _, option := range q.Options {
			fmt.Printf("  %s\n", option)
		}

		for {
			input := promptLine(scanner, "Your answer (a/b/c/d, h for hint, enter to skip): ")

			if input == "" {
				break
			}

			if strings.EqualFold(input, "h") {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				hint, err := session.RequestHint(ctx, i)
				cancel()
				if err != nil {
					fmt.Printf("❌ Could not fetch a hint: %v\n", err)
					continue
				}
				fmt.Printf("💡 Hint: %s\n", hint)
				continue
			}

			letter := strings.ToLower(input)
			idx, ok := quizcraft.AnswerIndex(letter)
			if !ok || idx >= len(q.Options) {
				fmt.Println("Please enter a, b, c, or d")
				continue
			}

			if err := session.SelectOption(i, q.Options[idx]); err != nil {
				fmt.Printf("❌ %v\n", err)
			}
			break
		}

		fmt.Println()
		fmt.Println(strings.Repeat("─", 50))
		fmt.Println()
	}
}

func printReport(report quizcraft.ScoreReport) {
	fmt.Printf("🎉 You scored %d / %d\n\n", report.Score, report.Total)
	fmt.Println("🧐 Question-wise Analysis:")

	for _, row := range report.Results {
		marker := "❌ Incorrect"
		if row.Correct {
			marker = "✅ Correct"
		}
		fmt.Printf("\nQ%d: %s\n", row.Number, row.Question)
		fmt.Printf("  Your answer: %s\n", row.UserAnswer)
		fmt.Printf("  Correct answer: %s\n", row.CorrectAnswer)
		fmt.Printf("  Result: %s\n", marker)
	}
}

func promptLine(scanner *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func normalizeDifficulty(d string) string {
	for _, level := range quizcraft.Difficulties {
		if strings.EqualFold(d, level) {
			return level
		}
	}
	log.Printf("Unknown difficulty %q, using %s", d, quizcraft.DifficultyBeginner)
	return quizcraft.DifficultyBeginner
}

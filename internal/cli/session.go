package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fxconvert/internal/converter"
	"fxconvert/internal/rates"
)

const resultRule = "=================================================="

// Session runs the interactive conversion loop against one active snapshot.
type Session struct {
	console    *Console
	prompt     *Prompter
	snap       *rates.Snapshot
	currencies []converter.Currency
	maxAmount  float64
	log        *zap.SugaredLogger
}

// NewSession creates a Session. currencies must be non-empty.
func NewSession(console *Console, prompt *Prompter, snap *rates.Snapshot, currencies []converter.Currency, maxAmount float64, logger *zap.SugaredLogger) *Session {
	return &Session{
		console:    console,
		prompt:     prompt,
		snap:       snap,
		currencies: currencies,
		maxAmount:  maxAmount,
		log:        logger,
	}
}

// Run shows the currency menu and converts until the user declines to
// continue. It returns nil on a normal exit, or the context error / io.EOF
// when the session was cut short.
func (s *Session) Run(ctx context.Context) error {
	s.printMenu()

	for {
		src, err := s.chooseCurrency(ctx, "\n-> Select source currency (number from the list above): ")
		if err != nil {
			return err
		}

		s.console.Println()
		s.console.Println(fmt.Sprintf("Got it, currency \"%s\", what amount?", src.Name))
		amount, err := s.askAmount(ctx)
		if err != nil {
			return err
		}

		tgt, err := s.chooseCurrency(ctx, "\n-> Select target currency (number from the list above): ")
		if err != nil {
			return err
		}

		if src.Code == tgt.Code {
			s.console.Println()
			s.console.Warn(fmt.Sprintf("You selected the same currency (%s) for both source and target.", src.Name))
			s.console.Println("No conversion is needed - the result will be the same as the source amount.")
			s.console.Println("Please select a different target currency.")
			continue
		}

		s.convert(src, tgt, amount)

		again, err := s.askRepeat(ctx)
		if err != nil {
			return err
		}
		if !again {
			s.console.Println()
			s.console.Println("👋 Thank you for using the currency converter! Goodbye!")
			return nil
		}
	}
}

func (s *Session) printMenu() {
	s.console.Println()
	s.console.Println("Available currencies (remember the numbers, they'll be needed for selecting both currencies):")
	for i, c := range s.currencies {
		s.console.Println(fmt.Sprintf("%d. %s (%s)", i+1, c.Name, c.Code))
	}
}

func (s *Session) chooseCurrency(ctx context.Context, prompt string) (converter.Currency, error) {
	for {
		input, err := s.prompt.Ask(ctx, prompt)
		if err != nil {
			return converter.Currency{}, err
		}
		choice, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			s.console.Warn("Please enter a numeric value")
			continue
		}
		if choice < 1 || choice > len(s.currencies) {
			s.console.Warn(fmt.Sprintf("Invalid selection. Enter a number between 1 and %d", len(s.currencies)))
			continue
		}
		return s.currencies[choice-1], nil
	}
}

func (s *Session) askAmount(ctx context.Context) (float64, error) {
	for {
		input, err := s.prompt.Ask(ctx, "-> ")
		if err != nil {
			return 0, err
		}
		amount, err := converter.ParseAmount(input, s.maxAmount)
		switch {
		case err == nil:
			return amount, nil
		case errors.Is(err, converter.ErrAmountNotPositive):
			s.console.Warn("Amount must be greater than 0")
		case errors.Is(err, converter.ErrAmountTooLarge):
			s.console.Warn("Amount cannot exceed " + FormatAmount(s.maxAmount))
		default:
			s.console.Warn("Please enter a numeric value")
		}
	}
}

func (s *Session) convert(src, tgt converter.Currency, amount float64) {
	result, err := converter.Convert(s.snap, src.Code, tgt.Code, amount)
	if err != nil {
		s.log.Warnw("Conversion failed", "source", src.Code, "target", tgt.Code, "error", err)
		s.console.Println()
		s.console.Error("Conversion error: " + err.Error())
		s.console.Println("Try selecting different currencies or updating data.")
		return
	}

	s.console.Println()
	s.console.Println(resultRule)
	s.console.Println("Conversion result:")
	s.console.Println(fmt.Sprintf("%s %s (%s)", FormatAmount(amount), src.Name, src.Code))
	s.console.Println(fmt.Sprintf("→ %s %s (%s)", FormatAmount(result), tgt.Name, tgt.Code))
	s.console.Println("Rates as of " + s.snap.Label())
	s.console.Println(resultRule)
	s.console.Println()
	s.console.Println("Great! The conversion is complete.")
	s.console.Println()
}

func (s *Session) askRepeat(ctx context.Context) (bool, error) {
	for {
		input, err := s.prompt.Ask(ctx, "\nWould you like to perform another conversion? (yes/no): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		default:
			s.console.Warn("Please enter 'yes' or 'no'")
		}
	}
}

// Command checkout-sim drives the checkout flow against a running order API:
// pick a variant, submit the form, choose the simulated payment outcome and
// print the status page.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jiten398/single-checkout-flow/configs"
	"github.com/jiten398/single-checkout-flow/internal/checkout"
	"github.com/jiten398/single-checkout-flow/internal/client"
	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/logging"
	"github.com/jiten398/single-checkout-flow/internal/validation"
)

type formFile struct {
	FullName   string `yaml:"full_name"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	Address    string `yaml:"address"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	ZipCode    string `yaml:"zip_code"`
	CardNumber string `yaml:"card_number"`
	ExpiryDate string `yaml:"expiry_date"`
	CVV        string `yaml:"cvv"`
}

func (f formFile) form() validation.CheckoutForm {
	return validation.CheckoutForm{
		FullName:   f.FullName,
		Email:      f.Email,
		Phone:      f.Phone,
		Address:    f.Address,
		City:       f.City,
		State:      f.State,
		ZipCode:    f.ZipCode,
		CardNumber: f.CardNumber,
		ExpiryDate: f.ExpiryDate,
		CVV:        f.CVV,
	}
}

func loadForm(path string) (validation.CheckoutForm, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return validation.CheckoutForm{}, err
	}
	var f formFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return validation.CheckoutForm{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.form(), nil
}

func main() {
	api := flag.String("api", "http://localhost:8080", "order API base URL")
	formPath := flag.String("form", "cmd/checkout-sim/form.example.yaml", "YAML file with the checkout form")
	color := flag.String("color", "Black", "product color")
	size := flag.String("size", "M", "product size")
	qty := flag.Int("qty", 1, "quantity (1-99)")
	outcome := flag.String("outcome", "approved", "simulated payment outcome: approved|declined|error")
	delay := flag.Duration("approved-delay", checkout.DefaultApprovedDelay, "confirmation delay before an approved order is submitted (default from checkout.approved_delay)")
	retries := flag.Int("retries", 0, "manual retries after a failed submission")
	flag.Parse()

	if !flagSet("approved-delay") {
		*delay = configuredDelay()
	}

	logging.Init(logging.Options{Component: "checkout-sim", Level: "info"})
	logger := logging.New("sim")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	status, err := entity.ParsePaymentStatus(*outcome)
	if err != nil {
		fatal(err)
	}
	form, err := loadForm(*formPath)
	if err != nil {
		fatal(err)
	}

	c := client.New(*api, 15*time.Second)
	product, err := c.Product(ctx)
	if err != nil {
		fatal(fmt.Errorf("load product: %w", err))
	}

	f := checkout.NewFlow(product, c, checkout.WithApprovedDelay(*delay))
	steps := []func() error{
		func() error { return f.SelectVariant(*color, *size) },
		func() error { return f.SetQuantity(*qty) },
		f.BuyNow,
		func() error { return f.SubmitForm(form) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			fatal(err)
		}
	}
	logger.Info("form accepted", "state", f.State().String(), "total", f.Total())

	err = f.ChooseOutcome(ctx, status)
	for i := 0; err != nil && f.State() == checkout.Submitting && i < *retries; i++ {
		logger.Warn("checkout failed, retrying", "attempt", i+1, "err", f.Err())
		err = f.Retry(ctx)
	}
	if err != nil {
		fatal(err)
	}

	path, err := f.Redirect()
	if err != nil {
		fatal(err)
	}
	logger.Info("order placed", "order_id", f.OrderID(), "redirect", path)

	view, err := c.StatusView(ctx, path)
	if err != nil {
		fatal(err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(view)
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// configuredDelay reads checkout.approved_delay when the config files are
// reachable from the working directory.
func configuredDelay() time.Duration {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	cfg, err := configs.Load("configs", env)
	if err != nil || cfg.Checkout.ApprovedDelay <= 0 {
		return checkout.DefaultApprovedDelay
	}
	return cfg.Checkout.ApprovedDelay
}

func fatal(err error) {
	log.Fatalf("checkout-sim: %v", err)
}

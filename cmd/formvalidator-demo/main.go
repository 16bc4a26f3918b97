package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	formvalidator "github.com/goliatone/go-formvalidator"
	"github.com/goliatone/go-formvalidator/internal/demo"
)

func main() {
	configPath := flag.String("config", "", "display configuration file (.yaml, .json or .toml)")
	formName := flag.String("form", "simple", "demo form to run: "+strings.Join(demo.Names(), "|"))
	submit := flag.Bool("submit", false, "submit the form after the scripted interaction")
	interactive := flag.Bool("interactive", false, "prompt for field values instead of replaying the script")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	display := formvalidator.DefaultConfig()
	var fields map[string]formvalidator.Override
	if *configPath != "" {
		var err error
		display, fields, err = formvalidator.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	opts := demo.Options{
		Form:    *formName,
		Display: display,
		Fields:  fields,
		Submit:  *submit,
	}
	if *interactive {
		opts.Prompter = demo.SurveyPrompter()
	}

	result, err := demo.Run(context.Background(), opts)
	if errors.Is(err, demo.ErrAborted) {
		log.Println("Aborted")
		return
	}
	if err != nil {
		log.Fatalf("Failed to run demo: %v", err)
	}

	log.Printf("form=%s valid=%t submitted=%t prevented=%t showing=%v",
		*formName, result.Valid, result.Submitted, result.Prevented, result.Shown)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result.HTML+"\n"), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	fmt.Println(result.HTML)
}

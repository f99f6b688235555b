package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rekrytera/jobad-publisher/internal/publish"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <job-id>",
	Short: "Resolve a job ad's free-text attributes to taxonomy concepts",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

var validateCmd = &cobra.Command{
	Use:   "validate <job-id>",
	Short: "Validate a job ad against the exchange's business rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var publishCmd = &cobra.Command{
	Use:   "publish <job-id>",
	Short: "Publish or update a job ad on the remote exchange",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(publishCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", args[0], err)
	}

	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	outcome, err := d.publisher.ResolveJob(cmd.Context(), id)
	if err != nil {
		return err
	}

	for _, field := range outcome.Resolved {
		fmt.Printf("resolved: %s\n", field)
	}
	for _, warning := range outcome.Warnings {
		fmt.Printf("warning:  %s\n", warning)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", args[0], err)
	}

	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	violations, err := d.publisher.ValidateJob(cmd.Context(), id)
	if err != nil {
		return err
	}

	if len(violations) == 0 {
		fmt.Println("valid")
		return nil
	}
	for _, v := range violations {
		fmt.Println(v)
	}
	return fmt.Errorf("%d violation(s)", len(violations))
}

func runPublish(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", args[0], err)
	}

	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	result, err := d.publisher.PublishJob(cmd.Context(), id)
	if err != nil {
		return err
	}

	switch result.Status {
	case publish.StatusPublished:
		fmt.Printf("published: remote ad %s\n", result.RemoteAdID)
		return nil
	case publish.StatusBlocked:
		for _, v := range result.Violations {
			fmt.Println(v)
		}
		return fmt.Errorf("publish blocked by %d local violation(s)", len(result.Violations))
	default:
		if result.Outcome != nil {
			if re := result.Outcome.RemoteError(); re != nil {
				for _, fe := range re.FieldErrors {
					fmt.Printf("%s: %s\n", fe.Field, fe.Message)
				}
				return fmt.Errorf("remote call failed (%s, status %d)", re.Kind, re.StatusCode)
			}
		}
		return fmt.Errorf("remote call failed")
	}
}

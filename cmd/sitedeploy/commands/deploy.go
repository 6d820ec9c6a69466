package commands

import (
	"context"
	"fmt"
)

// DeployCmd implements the 'deploy' command: the full three-stage pipeline.
type DeployCmd struct{}

func (d *DeployCmd) Run(_ *Global, root *CLI) error {
	deployer, _, closeStore, err := newDeployer(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer closeStore()

	report, err := deployer.Deploy(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Deploy completed successfully (%d entries relocated)\n", report.EntriesRelocated)
	return nil
}

// InstallCmd implements the 'install' command.
type InstallCmd struct{}

func (i *InstallCmd) Run(_ *Global, root *CLI) error {
	deployer, _, closeStore, err := newDeployer(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer closeStore()

	_, err = deployer.Install(context.Background())
	return err
}

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	deployer, _, closeStore, err := newDeployer(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer closeStore()

	_, err = deployer.Generate(context.Background())
	return err
}

// RelocateCmd implements the 'relocate' command.
type RelocateCmd struct{}

func (r *RelocateCmd) Run(_ *Global, root *CLI) error {
	deployer, _, closeStore, err := newDeployer(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer closeStore()

	report, err := deployer.Relocate(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Relocated %d entries\n", report.EntriesRelocated)
	return nil
}

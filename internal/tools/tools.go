// Package tools builds the argument vectors of the external control planes
// deployctl drives: Terraform, Ansible and Docker.
package tools

import (
	"strings"

	"github.com/codex-k8s/deployctl/internal/pipeline"
)

// Terraform wraps terraform invocations in a fixed working directory.
type Terraform struct {
	Bin string
	Dir string
}

// NewTerraform constructs a Terraform wrapper.
func NewTerraform(bin, dir string) *Terraform {
	return &Terraform{Bin: bin, Dir: dir}
}

// Init prepares the working directory (providers, backend).
func (t *Terraform) Init() pipeline.Step {
	return t.step("init")
}

// Fmt rewrites definitions to canonical format in place.
func (t *Terraform) Fmt() pipeline.Step {
	return t.step("fmt", "-recursive")
}

// Validate checks the definitions without touching real resources.
func (t *Terraform) Validate() pipeline.Step {
	return t.step("validate")
}

// Apply provisions resources without an interactive approval.
func (t *Terraform) Apply() pipeline.Step {
	return t.step("apply", "-auto-approve")
}

// Destroy tears resources down without an interactive approval.
func (t *Terraform) Destroy() pipeline.Step {
	return t.step("destroy", "-auto-approve")
}

func (t *Terraform) step(args ...string) pipeline.Step {
	return pipeline.Step{
		Name:    "terraform " + args[0],
		Program: t.Bin,
		Args:    args,
		Dir:     t.Dir,
	}
}

// Var is an Ansible extra variable passed with -e.
type Var struct {
	Key   string
	Value string
	// Secret values are masked in displayed command lines.
	Secret bool
}

// Ansible wraps ansible-playbook invocations against one inventory.
type Ansible struct {
	Bin       string
	Dir       string
	Inventory string
}

// NewAnsible constructs an Ansible wrapper.
func NewAnsible(bin, dir, inventory string) *Ansible {
	return &Ansible{Bin: bin, Dir: dir, Inventory: inventory}
}

// Playbook runs the given playbook with extra variables, in order.
func (a *Ansible) Playbook(playbook string, vars ...Var) pipeline.Step {
	args := []string{"-i", a.Inventory, playbook}
	var redact []string
	for _, v := range vars {
		args = append(args, "-e", v.Key+"="+v.Value)
		if v.Secret {
			redact = append(redact, v.Value)
		}
	}
	return pipeline.Step{
		Name:    "ansible-playbook",
		Program: a.Bin,
		Args:    args,
		Dir:     a.Dir,
		Redact:  redact,
	}
}

// Docker wraps container runtime invocations.
type Docker struct {
	Bin string
	Dir string
}

// NewDocker constructs a Docker wrapper.
func NewDocker(bin, dir string) *Docker {
	return &Docker{Bin: bin, Dir: dir}
}

// RemoveContainers force-removes the named containers. The step is best
// effort: the containers may legitimately not exist.
func (d *Docker) RemoveContainers(names ...string) pipeline.Step {
	return pipeline.Step{
		Name:       "docker rm " + strings.Join(names, ","),
		Program:    d.Bin,
		Args:       append([]string{"rm", "-f"}, names...),
		Dir:        d.Dir,
		BestEffort: true,
	}
}

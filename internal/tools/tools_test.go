package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codex-k8s/deployctl/internal/pipeline"
)

func TestTerraformSteps(t *testing.T) {
	tf := NewTerraform("terraform", "/repo/terraform")

	tests := []struct {
		step pipeline.Step
		name string
		args []string
	}{
		{tf.Init(), "terraform init", []string{"init"}},
		{tf.Fmt(), "terraform fmt", []string{"fmt", "-recursive"}},
		{tf.Validate(), "terraform validate", []string{"validate"}},
		{tf.Apply(), "terraform apply", []string{"apply", "-auto-approve"}},
		{tf.Destroy(), "terraform destroy", []string{"destroy", "-auto-approve"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.step.Name)
		assert.Equal(t, "terraform", tt.step.Program)
		assert.Equal(t, tt.args, tt.step.Args)
		assert.Equal(t, "/repo/terraform", tt.step.Dir)
		assert.False(t, tt.step.BestEffort)
	}
}

func TestAnsiblePlaybook(t *testing.T) {
	a := NewAnsible("ansible-playbook", "/repo", "/repo/ansible/inventory/inventory.ini")

	step := a.Playbook("/repo/ansible/playbook.yml",
		Var{Key: "db_password", Value: "secret123", Secret: true},
		Var{Key: "env", Value: "demo"},
	)

	assert.Equal(t, []string{
		"-i", "/repo/ansible/inventory/inventory.ini",
		"/repo/ansible/playbook.yml",
		"-e", "db_password=secret123",
		"-e", "env=demo",
	}, step.Args)
	assert.Equal(t, "/repo", step.Dir)
	assert.Equal(t, []string{"secret123"}, step.Redact)
	assert.False(t, step.BestEffort)
	assert.NotContains(t, step.String(), "secret123")
}

func TestDockerRemoveContainers(t *testing.T) {
	step := NewDocker("docker", "/repo").RemoveContainers("auth-service", "catalog-service")

	assert.Equal(t, "docker", step.Program)
	assert.Equal(t, []string{"rm", "-f", "auth-service", "catalog-service"}, step.Args)
	assert.Equal(t, "/repo", step.Dir)
	assert.True(t, step.BestEffort)
}

package orderflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueDefinitionsUnique(t *testing.T) {
	seen := make(map[StepID]bool)
	for _, d := range Catalogue() {
		assert.False(t, seen[d.ID], "duplicate step %s", d.ID)
		seen[d.ID] = true
		assert.NotEmpty(t, d.Title)
		assert.NotEmpty(t, d.StartMessage)
		assert.NotEmpty(t, d.CompletedMessage)
	}
}

func TestFormForInteractiveSteps(t *testing.T) {
	tests := []struct {
		step StepID
		form FormTag
	}{
		{StepSelectProject, FormSelectProject},
		{StepCreateProject, FormCreateProject},
		{StepSelectTweetType, FormSelectTweetType},
		{StepSelectAddOns, FormSelectAddOns},
		{StepUploadMedia, FormUploadMedia},
		{StepMaterials, FormMaterials},
		{StepSchedule, FormSchedule},
	}
	for _, tt := range tests {
		t.Run(string(tt.step), func(t *testing.T) {
			assert.Equal(t, tt.form, FormFor(tt.step))
			assert.True(t, IsInteractive(tt.step))
		})
	}
}

func TestAutomatedStepsHaveNoForm(t *testing.T) {
	automated := []StepID{
		StepVerifySession, StepFetchProjects, StepFetchCatalog,
		StepCalcAmount, StepValidate, StepCreateOrder,
		StepCheckNetwork, StepCheckBalance, StepCheckAllowance,
		StepApprove, StepTransact, StepPay, StepDone,
	}
	for _, step := range automated {
		assert.Equal(t, FormNone, FormFor(step), "step %s", step)
		assert.False(t, IsInteractive(step), "step %s", step)
	}
}

func TestPredecessorTransactDependsOnApproval(t *testing.T) {
	s := NewFlowState("u1", "c1")
	s.CurrentStep = StepTransact

	s.NeedsApproval = true
	pred, ok := Predecessor(s)
	require.True(t, ok)
	assert.Equal(t, StepApprove, pred)

	s.NeedsApproval = false
	pred, ok = Predecessor(s)
	require.True(t, ok)
	assert.Equal(t, StepCheckAllowance, pred)
}

func TestPredecessorFirstStepHasNone(t *testing.T) {
	s := NewFlowState("u1", "c1")
	s.CurrentStep = StepSelectProject
	_, ok := Predecessor(s)
	assert.False(t, ok)

	// Create-project with no existing projects is also an entry point.
	s.CurrentStep = StepCreateProject
	_, ok = Predecessor(s)
	assert.False(t, ok)
}

package orderflow

// Step identifiers, in flow order. Conditional branches (project
// creation, media upload, token approval) are explicit edges rather
// than inserted fractional positions.
const (
	StepAdvisory        StepID = "advisory"
	StepVerifySession   StepID = "verify_session"
	StepFetchProjects   StepID = "fetch_projects"
	StepSelectProject   StepID = "select_project"
	StepCreateProject   StepID = "create_project"
	StepFetchCatalog    StepID = "fetch_catalog"
	StepSelectTweetType StepID = "select_tweet_type"
	StepSelectAddOns    StepID = "select_add_ons"
	StepUploadMedia     StepID = "upload_media"
	StepMaterials       StepID = "materials"
	StepSchedule        StepID = "schedule"
	StepCalcAmount      StepID = "calc_amount"
	StepValidate        StepID = "validate"
	StepCreateOrder     StepID = "create_order"
	StepCheckNetwork    StepID = "check_network"
	StepCheckBalance    StepID = "check_balance"
	StepCheckAllowance  StepID = "check_allowance"
	StepApprove         StepID = "approve"
	StepTransact        StepID = "transact"
	StepPay             StepID = "pay"
	StepDone            StepID = "done"
)

// StepDefinition is the immutable catalogue entry for one step.
type StepDefinition struct {
	ID               StepID
	Title            string
	StartMessage     string
	CompletedMessage string
	Form             FormTag
}

var catalogue = []StepDefinition{
	{StepVerifySession, "Verify session", "Checking your login and wallet...", "Session verified.", FormNone},
	{StepFetchProjects, "Fetch projects", "Loading your projects...", "Projects loaded.", FormNone},
	{StepSelectProject, "Select project", "Please choose the project to promote.", "Project selected.", FormSelectProject},
	{StepCreateProject, "Create project", "Please fill in your new project details.", "Project created.", FormCreateProject},
	{StepFetchCatalog, "Fetch service catalog", "Loading promotion services...", "Services loaded.", FormNone},
	{StepSelectTweetType, "Select tweet type", "Please choose the promotion format.", "Promotion format selected.", FormSelectTweetType},
	{StepSelectAddOns, "Select add-ons", "Please choose any add-on services.", "Add-ons selected.", FormSelectAddOns},
	{StepUploadMedia, "Upload media", "Please upload the promotion images.", "Media attached.", FormUploadMedia},
	{StepMaterials, "Promotional materials", "Please describe your promotional content.", "Materials saved.", FormMaterials},
	{StepSchedule, "Schedule", "Please pick the promotion period.", "Schedule saved.", FormSchedule},
	{StepCalcAmount, "Calculate amount", "Calculating the order total...", "Total calculated.", FormNone},
	{StepValidate, "Validate parameters", "Validating your order...", "Order validated.", FormNone},
	{StepCreateOrder, "Create order", "Creating your order...", "Order created.", FormNone},
	{StepCheckNetwork, "Check network", "Checking the active network...", "Network OK.", FormNone},
	{StepCheckBalance, "Check balance", "Checking your token balance...", "Balance sufficient.", FormNone},
	{StepCheckAllowance, "Check allowance", "Checking the token allowance...", "Allowance checked.", FormNone},
	{StepApprove, "Approve token", "Waiting for your approval transaction...", "Approval confirmed.", FormNone},
	{StepTransact, "Submit transaction", "Submitting the payment transaction...", "Transaction confirmed.", FormNone},
	{StepPay, "Submit payment", "Registering your payment...", "Payment registered.", FormNone},
	{StepDone, "Order confirmed", "Finalizing your order...", "Order confirmed.", FormNone},
}

var definitions = func() map[StepID]StepDefinition {
	m := make(map[StepID]StepDefinition, len(catalogue))
	for _, d := range catalogue {
		m[d.ID] = d
	}
	return m
}()

// Definition returns the catalogue entry for a step.
func Definition(id StepID) (StepDefinition, bool) {
	d, ok := definitions[id]
	return d, ok
}

// Catalogue returns the ordered step definitions.
func Catalogue() []StepDefinition {
	return append([]StepDefinition(nil), catalogue...)
}

// FormFor maps a step to the interactive form it renders, or FormNone
// for automated steps. This is the whole render-selection contract.
func FormFor(id StepID) FormTag {
	if d, ok := definitions[id]; ok {
		return d.Form
	}
	return FormNone
}

// IsInteractive reports whether a step waits for user input.
func IsInteractive(id StepID) bool {
	return FormFor(id) != FormNone
}

// Predecessor returns the step a go-back from the current interactive
// step lands on. The materials step goes back to media upload only when
// the chosen tweet type requires media; the transaction step goes back
// to approval only when one was needed.
func Predecessor(s *FlowState) (StepID, bool) {
	switch s.CurrentStep {
	case StepCreateProject:
		if len(s.Projects) > 0 {
			return StepSelectProject, true
		}
		return "", false
	case StepSelectTweetType:
		return StepSelectProject, true
	case StepSelectAddOns:
		return StepSelectTweetType, true
	case StepUploadMedia:
		return StepSelectAddOns, true
	case StepMaterials:
		if s.requiresMedia() {
			return StepUploadMedia, true
		}
		return StepSelectAddOns, true
	case StepSchedule:
		return StepMaterials, true
	case StepTransact:
		if s.NeedsApproval {
			return StepApprove, true
		}
		return StepCheckAllowance, true
	}
	return "", false
}

// requiresMedia reports whether the currently chosen tweet type needs
// uploaded media.
func (s *FlowState) requiresMedia() bool {
	if s.Catalog == nil {
		return false
	}
	t, ok := s.Catalog.TweetType(s.Params.TweetServiceTypeId)
	return ok && t.RequiresMedia()
}

package orderflow

import (
	"KolDesk/entity"
	"context"
	"fmt"
	"strconv"
)

// execute runs one automated step action and returns the step to
// continue from. An empty next step with a nil error means the call was
// a duplicate and the coordinator should abstain quietly.
func (c *Coordinator) execute(ctx context.Context, s *FlowState, step StepID) (StepID, error) {
	switch step {
	case StepVerifySession:
		return c.executeVerifySession(ctx, s)
	case StepFetchProjects:
		return c.executeFetchProjects(ctx, s)
	case StepFetchCatalog:
		return c.executeFetchCatalog(ctx, s)
	case StepCalcAmount:
		return c.executeCalcAmount(s)
	case StepValidate:
		return c.executeValidate(s)
	case StepCreateOrder:
		return c.executeCreateOrder(ctx, s)
	case StepCheckNetwork:
		return c.executeCheckNetwork(ctx, s)
	case StepCheckBalance:
		return c.executeCheckBalance(ctx, s)
	case StepCheckAllowance:
		return c.executeCheckAllowance(ctx, s)
	case StepApprove:
		return c.executeApprove(ctx, s)
	case StepTransact:
		return c.executeTransact(ctx, s)
	case StepPay:
		return c.executePay(ctx, s)
	case StepDone:
		return StepDone, nil
	}
	return "", newFlowError(KindRestoreFailed, fmt.Sprintf("step %q is not automated", step), nil)
}

func (c *Coordinator) executeVerifySession(ctx context.Context, s *FlowState) (StepID, error) {
	session, err := c.session.Verify(ctx, s.UserUUID)
	if err != nil {
		return "", newFlowError(KindSessionRequired, "could not verify your session", err)
	}
	if !session.LoggedIn {
		return "", newFlowError(KindSessionRequired, "please log in to place an order", nil)
	}
	if session.Wallet == "" {
		return "", newFlowError(KindSessionRequired, "please connect your wallet to place an order", nil)
	}
	s.Wallet = session.Wallet
	return StepFetchProjects, nil
}

func (c *Coordinator) executeFetchProjects(ctx context.Context, s *FlowState) (StepID, error) {
	projects, err := c.market.ListProjects(ctx, s.UserUUID)
	if err != nil {
		return "", newFlowError(KindFetchFailed, "could not load your projects", err)
	}
	s.Projects = projects
	if len(projects) == 0 {
		return StepCreateProject, nil
	}
	return StepSelectProject, nil
}

func (c *Coordinator) executeFetchCatalog(ctx context.Context, s *FlowState) (StepID, error) {
	catalog, err := c.market.FetchServiceCatalog(ctx)
	if err != nil {
		return "", newFlowError(KindFetchFailed, "could not load the service catalog", err)
	}
	s.Catalog = catalog
	return StepSelectTweetType, nil
}

func (c *Coordinator) executeCalcAmount(s *FlowState) (StepID, error) {
	amount, err := amountFor(s)
	if err != nil {
		return "", newFlowError(KindCalcFailed, "could not calculate the order total", err)
	}
	s.Params.Amount = FormatAmount(amount)
	return StepValidate, nil
}

// executeValidate performs the structural pre-submission check. The
// first problem found becomes the failure message.
func (c *Coordinator) executeValidate(s *FlowState) (StepID, error) {
	draft := s.orderDraft()
	if err := c.validate.Struct(draft); err != nil {
		return "", newFlowError(KindValidationFailed, "order parameters are incomplete", err)
	}
	if err := validateDateRange(draft.PromotionalStartAt, draft.PromotionalEndAt); err != nil {
		return "", newFlowError(KindValidationFailed, "promotion schedule is invalid", err)
	}
	if s.requiresMedia() && len(draft.Medias) == 0 {
		return "", newFlowError(KindValidationFailed, "the chosen promotion format requires media", nil)
	}
	return StepCreateOrder, nil
}

func (c *Coordinator) executeCreateOrder(ctx context.Context, s *FlowState) (StepID, error) {
	// Order creation is single-shot per flow; a re-entrant call after a
	// successful creation just moves on.
	if s.OrderNo != "" {
		return StepCheckNetwork, nil
	}
	order, err := c.market.CreateOrder(ctx, s.UserUUID, s.orderDraft())
	if err != nil {
		return "", newFlowError(KindCreateOrderFailed, "could not create the order", err)
	}
	s.OrderNo = order.OrderNo
	s.OrderId = order.OrderId
	return StepCheckNetwork, nil
}

func (c *Coordinator) executeCheckNetwork(ctx context.Context, s *FlowState) (StepID, error) {
	chainId, err := c.chain.ActiveChain(ctx, s.Wallet)
	if err != nil {
		return "", newFlowError(KindFetchFailed, "could not determine the active network", err)
	}
	if chainId != c.requiredChain {
		s.WrongChain = true
		return "", newFlowError(KindWrongNetwork,
			fmt.Sprintf("please switch to network %d (currently on %d)", c.requiredChain, chainId), nil)
	}
	s.WrongChain = false
	return StepCheckBalance, nil
}

func (c *Coordinator) executeCheckBalance(ctx context.Context, s *FlowState) (StepID, error) {
	amount, err := s.amountValue()
	if err != nil {
		return "", newFlowError(KindCalcFailed, "order amount is missing", err)
	}
	balance, err := c.chain.Balance(ctx, s.Wallet)
	if err != nil {
		return "", newFlowError(KindFetchFailed, "could not read your token balance", err)
	}
	if balance < amount {
		return "", newFlowError(KindInsufficientBalance,
			fmt.Sprintf("balance %s is below the order total %s", FormatAmount(balance), s.Params.Amount), nil)
	}
	return StepCheckAllowance, nil
}

func (c *Coordinator) executeCheckAllowance(ctx context.Context, s *FlowState) (StepID, error) {
	amount, err := s.amountValue()
	if err != nil {
		return "", newFlowError(KindCalcFailed, "order amount is missing", err)
	}
	allowance, err := c.chain.Allowance(ctx, s.Wallet, c.spender)
	if err != nil {
		return "", newFlowError(KindFetchFailed, "could not read the token allowance", err)
	}
	if allowance >= amount {
		// Already approved: skip straight to the transaction.
		s.NeedsApproval = false
		return StepTransact, nil
	}
	s.NeedsApproval = true
	return StepApprove, nil
}

func (c *Coordinator) executeApprove(ctx context.Context, s *FlowState) (StepID, error) {
	amount, err := s.amountValue()
	if err != nil {
		return "", newFlowError(KindCalcFailed, "order amount is missing", err)
	}
	txHash, err := c.chain.Approve(ctx, s.Wallet, c.spender, amount)
	if err != nil {
		return "", newFlowError(KindApprovalFailed, "token approval was rejected", err)
	}
	if err := c.chain.WaitForReceipt(ctx, txHash); err != nil {
		return "", newFlowError(KindApprovalFailed, "token approval did not confirm", err)
	}
	return StepTransact, nil
}

func (c *Coordinator) executeTransact(ctx context.Context, s *FlowState) (StepID, error) {
	// The transfer is single-shot; a confirmed hash is never resubmitted.
	if s.TxHash == "" {
		amount, err := s.amountValue()
		if err != nil {
			return "", newFlowError(KindCalcFailed, "order amount is missing", err)
		}
		txHash, err := c.chain.Issue(ctx, s.Wallet, amount, s.OrderNo)
		if err != nil {
			return "", newFlowError(KindTransactionFailed, "payment transaction was rejected", err)
		}
		s.TxHash = txHash
	}
	if err := c.chain.WaitForReceipt(ctx, s.TxHash); err != nil {
		return "", newFlowError(KindTransactionFailed, "payment transaction did not confirm", err)
	}
	return StepPay, nil
}

// executePay registers the confirmed transaction with the marketplace.
// A per-action marker plus a process-wide currently-paying slot make
// the submission single-shot even under duplicate callbacks or
// concurrent flows from other conversations.
func (c *Coordinator) executePay(ctx context.Context, s *FlowState) (StepID, error) {
	if s.Payment == PaymentCompleted {
		return StepDone, nil
	}

	c.mu.Lock()
	if c.paying != "" && c.paying != s.ActionID {
		c.mu.Unlock()
		return "", newFlowError(KindPaymentFailed, "another payment is already in progress", nil)
	}
	if c.paying == s.ActionID && s.Payment == PaymentProcessing {
		// Duplicate callback while the first submission is in flight.
		c.mu.Unlock()
		return "", nil
	}
	c.paying = s.ActionID
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.paying == s.ActionID {
			c.paying = ""
		}
		c.mu.Unlock()
	}()

	s.Payment = PaymentProcessing
	if err := c.market.PayOrder(ctx, s.OrderNo, s.TxHash); err != nil {
		s.Payment = PaymentAbsent
		return "", newFlowError(KindPaymentFailed, "payment could not be registered", err)
	}
	s.Payment = PaymentCompleted
	return StepDone, nil
}

// orderDraft assembles the create-order request from the accumulator.
func (s *FlowState) orderDraft() entity.OrderDraft {
	return entity.OrderDraft{
		ProjectId:            s.Params.ProjectId,
		KolIds:               s.Params.KolIds,
		Amount:               s.Params.Amount,
		PromotionalMaterials: s.Params.PromotionalMaterials,
		PromotionalStartAt:   s.Params.PromotionalStartAt,
		PromotionalEndAt:     s.Params.PromotionalEndAt,
		TweetServiceTypeId:   s.Params.TweetServiceTypeId,
		Medias:               s.Params.Medias,
		ExtServiceTypeIds:    s.Params.ExtServiceTypeIds,
	}
}

// amountValue parses the formatted amount back to a number for chain
// comparisons.
func (s *FlowState) amountValue() (float64, error) {
	if s.Params.Amount == "" {
		return 0, fmt.Errorf("amount not calculated")
	}
	return strconv.ParseFloat(s.Params.Amount, 64)
}

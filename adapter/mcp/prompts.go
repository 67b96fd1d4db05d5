package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common SuppliFit workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("store_review").
		Description("Review a pending partner store and decide whether to approve, reject or suspend it.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			storeID := orDefault(args["store_id"], "<store id>")
			return userPrompt("Partner Store Review", fmt.Sprintf(`Review partner store %s.

1. Fetch the store with the store.get tool
2. Check that the registration number is 14 digits and the contact details are filled in
3. Compare its tier with the supplifit://commission/tiers resource

Then recommend a status (approved, rejected or suspended) with a one-line reason,
and apply it with the store.status tool once I confirm.`, storeID)), nil
		})

	srv.Prompt("commission_quote").
		Description("Explain the commission on a sale, including volume discounts and the enterprise cap.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Commission Quote", fmt.Sprintf(`Quote the commission for a sale of %s at store %s.

Use the commission.calculate tool and explain:
- the base rate and the effective rate after any premium volume discount
- whether the enterprise cap was applied
- the net amount the store receives`, orDefault(args["amount"], "<amount>"), orDefault(args["store_id"], "<store id>"))), nil
		})

	srv.Prompt("renewal_check").
		Description("Run the expiry sweep and summarize which subscriptions ended and which need a renewal reminder.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Renewal Check", `Run the subscriptions.sweep tool.

Summarize:
- subscriptions that expired today, grouped by plan
- subscriptions ending within the notice window with days left
- how many reminder notices were sent

For each user with an expiring subscription that still has renewal enabled,
suggest whether to renew now with subscription.renew.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"lease-recert-bot/internal/dates"
)

var leaseAddFlow = &flow{
	start: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		return "Adding a new lease.\n\nEnter tenant name:", true, nil
	},
	steps: []step{
		{
			prompt: promptText("Enter tenant name:"),
			apply:  func(s *Session, v string) { s.Draft.Lease.TenantName = v },
		},
		{
			prompt: promptText("Enter property address:"),
			apply:  func(s *Session, v string) { s.Draft.Lease.Address = v },
		},
		{
			prompt: promptText("Enter lease start date (MM/DD/YYYY):"),
			validate: func(s *Session, input string) (string, error) {
				if _, err := dates.Parse(input); err != nil {
					return "", errors.New("Invalid date format. Please enter date as MM/DD/YYYY (e.g., 01/15/2025):")
				}
				return input, nil
			},
			apply: func(s *Session, v string) { s.Draft.Lease.StartDate = v },
		},
	},
	complete: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		l := &s.Draft.Lease
		recert, reminder, err := dates.ComputeFollowUp(l.StartDate)
		if err != nil {
			// The date step already validated; reaching this means a bug, not
			// user error.
			return "", false, err
		}
		l.ChatID = s.ChatID
		l.RecertDate = recert
		l.ReminderDate = reminder
		if _, err := e.store.CreateLease(ctx, l); err != nil {
			return "", false, err
		}
		reply := fmt.Sprintf(
			"Lease added.\n\nTenant: %s\nAddress: %s\nStart: %s\nRecert: %s\nReminder: %s",
			l.TenantName, l.Address, l.StartDate, l.RecertDate, l.ReminderDate,
		)
		return reply, false, nil
	},
}

var leaseRemoveFlow = &flow{
	start: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		leases, err := e.store.ListLeasesByChat(ctx, s.ChatID)
		if err != nil {
			return "", false, err
		}
		if len(leases) == 0 {
			return "No leases found. There's nothing to remove.", false, nil
		}
		s.Draft.Leases = leases
		reply := fmt.Sprintf(
			"Removing a lease.\n\nYour leases:\n\n%s\n\nReply with the number of the lease you want to remove:",
			RenderLeaseList(leases),
		)
		return reply, true, nil
	},
	steps: []step{
		{
			prompt: func(s *Session) string {
				return fmt.Sprintf("Reply with the number of the lease you want to remove (1-%d):", len(s.Draft.Leases))
			},
			validate: func(s *Session, input string) (string, error) {
				return validateChoice(input, len(s.Draft.Leases))
			},
			apply: func(s *Session, v string) {
				n, _ := strconv.Atoi(v)
				s.Draft.Lease = *s.Draft.Leases[n-1]
			},
		},
	},
	complete: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		target := s.Draft.Lease
		deleted, err := e.store.DeleteLease(ctx, target.ID, s.ChatID)
		if err != nil {
			return "", false, err
		}
		if !deleted {
			// The snapshot went stale: the row vanished between listing and
			// choosing. Report the failure rather than touching anything else.
			return "Error removing lease. It may have already been removed.", false, nil
		}
		return fmt.Sprintf("Lease for %s has been removed.", target.TenantName), false, nil
	},
}

// validateChoice checks a 1-based numeric list choice against 1..n.
func validateChoice(input string, n int) (string, error) {
	choice, err := strconv.Atoi(input)
	if err != nil {
		return "", errors.New("Please enter a valid number from the list:")
	}
	if choice < 1 || choice > n {
		return "", fmt.Errorf("Please enter a number between 1 and %d:", n)
	}
	return strconv.Itoa(choice), nil
}

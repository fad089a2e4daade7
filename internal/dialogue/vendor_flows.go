package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lease-recert-bot/internal/models"
	"lease-recert-bot/internal/store"
)

const msgBadRating = "Please enter a rating from 1 to 5, or 'skip':"

func validateRating(input string) (string, error) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > 5 {
		return "", errors.New(msgBadRating)
	}
	return strconv.Itoa(n), nil
}

func categoryMenu() string {
	var b strings.Builder
	b.WriteString("Adding a vendor.\n\nChoose a category:\n")
	for i, c := range models.Categories {
		fmt.Fprintf(&b, "%d) %s\n", i+1, c.Label())
	}
	b.WriteString("\nReply with the number or name:")
	return b.String()
}

func setOptional(dst **string, v string) {
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

var vendorAddFlow = &flow{
	start: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		return categoryMenu(), true, nil
	},
	steps: []step{
		{
			prompt: func(s *Session) string { return categoryMenu() },
			validate: func(s *Session, input string) (string, error) {
				c, ok := models.ParseCategory(input)
				if !ok {
					return "", errors.New("Unknown category. Reply with a number from the list or a category name:")
				}
				return string(c), nil
			},
			apply: func(s *Session, v string) { s.Draft.Vendor.Category = models.VendorCategory(v) },
		},
		{
			prompt: promptText("Enter vendor name:"),
			apply:  func(s *Session, v string) { s.Draft.Vendor.Name = v },
		},
		{
			prompt: promptText("Enter phone number:"),
			apply:  func(s *Session, v string) { s.Draft.Vendor.Phone = v },
		},
		{
			prompt:   promptText("Enter email (or 'skip'):"),
			optional: alwaysOptional,
			apply:    func(s *Session, v string) { setOptional(&s.Draft.Vendor.Email, v) },
		},
		{
			prompt:   promptText("Enter company (or 'skip'):"),
			optional: alwaysOptional,
			apply:    func(s *Session, v string) { setOptional(&s.Draft.Vendor.Company, v) },
		},
		{
			prompt:   promptText("Enter specialty (or 'skip'):"),
			optional: alwaysOptional,
			apply:    func(s *Session, v string) { setOptional(&s.Draft.Vendor.Specialty, v) },
		},
		{
			prompt:   promptText("Rate this vendor 1-5 (or 'skip'):"),
			optional: alwaysOptional,
			validate: func(s *Session, input string) (string, error) { return validateRating(input) },
			apply: func(s *Session, v string) {
				if v == "" {
					s.Draft.Vendor.Rating = nil
					return
				}
				n, _ := strconv.Atoi(v)
				s.Draft.Vendor.Rating = &n
			},
		},
	},
	complete: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		v := &s.Draft.Vendor
		v.ChatID = s.ChatID
		created, err := e.store.CreateVendor(ctx, v)
		if err != nil {
			return "", false, err
		}
		reply := fmt.Sprintf("Vendor %s (%s) added.", created.Name, created.Category.Label())

		// Only the housing-authority category carries the extra-detail
		// sub-dialogue.
		if created.Category == models.CategoryHousingAuth {
			s.Kind = KindVendorDetail
			s.Step = 0
			s.Draft.DetailVendorID = created.ID
			s.Draft.Detail = models.VendorDetail{VendorID: created.ID}
			first := detailSteps[0].prompt(s)
			return reply + "\n\nA few extra housing authority details (reply 'skip' to any):\n\n" + first, true, nil
		}
		return reply, false, nil
	},
}

// detailStep builds one all-optional free-text step of the housing-authority
// sub-dialogue.
func detailStep(prompt string, set func(d *models.VendorDetail, v string)) step {
	return step{
		prompt:   promptText(prompt),
		optional: alwaysOptional,
		apply:    func(s *Session, v string) { set(&s.Draft.Detail, v) },
	}
}

var detailSteps = []step{
	detailStep("Agency name (or 'skip'):", func(d *models.VendorDetail, v string) { d.Agency = v }),
	detailStep("Contact person (or 'skip'):", func(d *models.VendorDetail, v string) { d.ContactName = v }),
	detailStep("Department (or 'skip'):", func(d *models.VendorDetail, v string) { d.Department = v }),
	detailStep("Preferred contact method (or 'skip'):", func(d *models.VendorDetail, v string) { d.ContactMethod = v }),
	detailStep("Best time to reach (or 'skip'):", func(d *models.VendorDetail, v string) { d.BestTime = v }),
	detailStep("Fax number (or 'skip'):", func(d *models.VendorDetail, v string) { d.Fax = v }),
	detailStep("Office address (or 'skip'):", func(d *models.VendorDetail, v string) { d.Address = v }),
	detailStep("Website (or 'skip'):", func(d *models.VendorDetail, v string) { d.Website = v }),
	detailStep("Notes (or 'skip'):", func(d *models.VendorDetail, v string) { d.Notes = v }),
}

var vendorDetailFlow = &flow{
	start: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		// Reached by chaining from vendor-add; there is no stand-alone entry.
		if s.Draft.DetailVendorID == 0 {
			return "Add a Housing Authority vendor first.", false, nil
		}
		return detailSteps[0].prompt(s), true, nil
	},
	steps: detailSteps,
	complete: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		if _, err := e.store.CreateVendorDetail(ctx, s.ChatID, &s.Draft.Detail); err != nil {
			return "", false, err
		}
		return "Housing authority details saved.", false, nil
	},
}

// editableField is one closed-set entry for the vendor edit dialogue. Fields
// outside this table cannot be edited at all.
type editableField struct {
	key      string
	label    string
	optional bool
	validate func(input string) (string, error)
	apply    func(u *store.UpdateVendor, v string)
}

var editableFields = []editableField{
	{
		key: "name", label: "Name",
		apply: func(u *store.UpdateVendor, v string) { u.Name = &v },
	},
	{
		key: "phone", label: "Phone",
		apply: func(u *store.UpdateVendor, v string) { u.Phone = &v },
	},
	{
		key: "email", label: "Email", optional: true,
		apply: func(u *store.UpdateVendor, v string) { u.Email = &v },
	},
	{
		key: "company", label: "Company", optional: true,
		apply: func(u *store.UpdateVendor, v string) { u.Company = &v },
	},
	{
		key: "specialty", label: "Specialty", optional: true,
		apply: func(u *store.UpdateVendor, v string) { u.Specialty = &v },
	},
	{
		key: "rating", label: "Rating", optional: true,
		validate: validateRating,
		apply: func(u *store.UpdateVendor, v string) {
			// Empty means the user skipped, which clears the rating.
			n := 0
			if v != "" {
				n, _ = strconv.Atoi(v)
			}
			u.Rating = &n
		},
	},
}

func editableFieldByKey(key string) *editableField {
	for i := range editableFields {
		if editableFields[i].key == key {
			return &editableFields[i]
		}
	}
	return nil
}

// parseEditableField accepts a 1-based menu number or a field name.
func parseEditableField(input string) (*editableField, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if n, err := strconv.Atoi(in); err == nil {
		if n >= 1 && n <= len(editableFields) {
			return &editableFields[n-1], true
		}
		return nil, false
	}
	for i := range editableFields {
		if editableFields[i].key == in {
			return &editableFields[i], true
		}
	}
	return nil, false
}

func editFieldMenu() string {
	var b strings.Builder
	b.WriteString("Which field do you want to change?\n")
	for i, f := range editableFields {
		fmt.Fprintf(&b, "%d) %s\n", i+1, f.label)
	}
	b.WriteString("\nReply with the number or field name:")
	return b.String()
}

var vendorEditFlow = &flow{
	start: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		vendors, err := e.store.ListVendors(ctx, &store.FindVendor{ChatID: s.ChatID})
		if err != nil {
			return "", false, err
		}
		if len(vendors) == 0 {
			return "No vendors found. There's nothing to edit.", false, nil
		}
		s.Draft.Vendors = vendors
		reply := fmt.Sprintf(
			"Editing a vendor.\n\nYour vendors:\n\n%s\n\nReply with the number of the vendor you want to edit:",
			RenderVendorList(vendors),
		)
		return reply, true, nil
	},
	steps: []step{
		{
			prompt: func(s *Session) string {
				return fmt.Sprintf("Reply with the number of the vendor you want to edit (1-%d):", len(s.Draft.Vendors))
			},
			validate: func(s *Session, input string) (string, error) {
				return validateChoice(input, len(s.Draft.Vendors))
			},
			apply: func(s *Session, v string) {
				n, _ := strconv.Atoi(v)
				s.Draft.EditVendorID = s.Draft.Vendors[n-1].ID
			},
		},
		{
			prompt: func(s *Session) string { return editFieldMenu() },
			validate: func(s *Session, input string) (string, error) {
				f, ok := parseEditableField(input)
				if !ok {
					return "", errors.New("Unknown field. Reply with a number from the list or a field name:")
				}
				return f.key, nil
			},
			apply: func(s *Session, v string) { s.Draft.EditField = v },
		},
		{
			prompt: func(s *Session) string {
				f := editableFieldByKey(s.Draft.EditField)
				if f.optional {
					return fmt.Sprintf("Enter the new %s (or 'skip' to clear it):", strings.ToLower(f.label))
				}
				return fmt.Sprintf("Enter the new %s:", strings.ToLower(f.label))
			},
			optional: func(s *Session) bool {
				return editableFieldByKey(s.Draft.EditField).optional
			},
			validate: func(s *Session, input string) (string, error) {
				f := editableFieldByKey(s.Draft.EditField)
				if f.validate == nil {
					return input, nil
				}
				return f.validate(input)
			},
			apply: func(s *Session, v string) { s.Draft.EditValue = v },
		},
	},
	complete: func(ctx context.Context, e *Engine, s *Session) (string, bool, error) {
		f := editableFieldByKey(s.Draft.EditField)
		update := &store.UpdateVendor{ID: s.Draft.EditVendorID, ChatID: s.ChatID}
		f.apply(update, s.Draft.EditValue)

		v, err := e.store.UpdateVendor(ctx, update)
		if errors.Is(err, store.ErrNotFound) {
			// Snapshot went stale between listing and choosing.
			return "Error updating vendor. It may have been removed.", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Vendor %s updated (%s).", v.Name, strings.ToLower(f.label)), false, nil
	},
}

package dialogue

import (
	"fmt"
	"strings"

	"lease-recert-bot/internal/models"
)

// RenderLeaseList formats leases as the numbered box list used by list views
// and the remove dialogue.
func RenderLeaseList(leases []*models.Lease) string {
	blocks := make([]string, 0, len(leases))
	for i, l := range leases {
		blocks = append(blocks, fmt.Sprintf(
			"%d)\n"+
				"┌───────────────────────────────\n"+
				"│ Tenant:   %s\n"+
				"│ Address:  %s\n"+
				"│ Start:    %s\n"+
				"│ Recert:   %s\n"+
				"│ Reminder: %s\n"+
				"└───────────────────────────────",
			i+1, l.TenantName, l.Address, l.StartDate, l.RecertDate, l.ReminderDate,
		))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderVendorList formats vendors as a numbered list for browsing and the
// edit dialogue.
func RenderVendorList(vendors []*models.Vendor) string {
	lines := make([]string, 0, len(vendors))
	for i, v := range vendors {
		line := fmt.Sprintf("%d) %s - %s, %s", i+1, v.Name, v.Category.Label(), v.Phone)
		if v.Rating != nil {
			line += fmt.Sprintf(" (%d/5)", *v.Rating)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderVendor formats one vendor's full card, with optional housing
// authority detail and notes sections.
func RenderVendor(v *models.Vendor, detail *models.VendorDetail, notes []*models.VendorNote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nCategory: %s\nPhone: %s\n", v.Name, v.Category.Label(), v.Phone)
	if v.Email != nil {
		fmt.Fprintf(&b, "Email: %s\n", *v.Email)
	}
	if v.Company != nil {
		fmt.Fprintf(&b, "Company: %s\n", *v.Company)
	}
	if v.Specialty != nil {
		fmt.Fprintf(&b, "Specialty: %s\n", *v.Specialty)
	}
	if v.Rating != nil {
		fmt.Fprintf(&b, "Rating: %d/5\n", *v.Rating)
	}
	if v.UseCount > 0 {
		fmt.Fprintf(&b, "Times used: %d\n", v.UseCount)
	}
	if detail != nil {
		b.WriteString("\nHousing authority details:\n")
		for _, kv := range [][2]string{
			{"Agency", detail.Agency},
			{"Contact", detail.ContactName},
			{"Department", detail.Department},
			{"Contact method", detail.ContactMethod},
			{"Best time", detail.BestTime},
			{"Fax", detail.Fax},
			{"Address", detail.Address},
			{"Website", detail.Website},
			{"Notes", detail.Notes},
		} {
			if kv[1] != "" {
				fmt.Fprintf(&b, "  %s: %s\n", kv[0], kv[1])
			}
		}
	}
	if len(notes) > 0 {
		b.WriteString("\nNotes (newest first):\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "  - %s\n", n.Note)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

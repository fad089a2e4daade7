// Package bot is the command layer: it polls Telegram for updates, classifies
// each message as a command or a dialogue step, and forwards it to the
// dialogue engine or a direct store query.
package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"lease-recert-bot/internal/dialogue"
	"lease-recert-bot/internal/models"
	"lease-recert-bot/internal/notify"
	"lease-recert-bot/internal/store"
)

const helpText = `Welcome to Lease Recertification Bot!

This bot helps you track lease recertifications and service vendors.

Commands:
/add - Add a new lease
/list - View all leases
/remove - Remove a lease
/vendor - Add a vendor
/vendors [category] - Browse vendors
/findvendor <text> - Search vendors
/vendorinfo <number> - Vendor details
/editvendor - Edit a vendor
/cancel - Cancel the current operation
/logout - Remove all your data
/help - Show this help message

The bot automatically sends reminders 7 days before recertification is due
(9 months after lease start date).`

// Store is the direct-query slice of the record store the router uses for
// one-shot commands.
type Store interface {
	ListLeasesByChat(ctx context.Context, chatID int64) ([]*models.Lease, error)
	ListVendors(ctx context.Context, find *store.FindVendor) ([]*models.Vendor, error)
	GetVendorDetail(ctx context.Context, vendorID, chatID int64) (*models.VendorDetail, error)
	ListVendorNotes(ctx context.Context, vendorID, chatID int64) ([]*models.VendorNote, error)
	DeleteAllLeases(ctx context.Context, chatID int64) (int64, error)
	DeleteAllVendors(ctx context.Context, chatID int64) (int64, error)
}

// Client is the Telegram surface the router needs.
type Client interface {
	Send(ctx context.Context, chatID int64, text string) error
	Updates(ctx context.Context, offset int64) ([]notify.Update, error)
}

// pollErrorBackoff keeps a persistent Updates failure from turning the poll
// loop into a busy spin.
const pollErrorBackoff = 3 * time.Second

// Router drives the bot's inbound loop.
type Router struct {
	client Client
	engine *dialogue.Engine
	store  Store
}

// New creates a router.
func New(client Client, engine *dialogue.Engine, st Store) *Router {
	return &Router{client: client, engine: engine, store: st}
}

// Run polls for updates until ctx is done.
func (r *Router) Run(ctx context.Context) {
	log.Printf("bot: starting update polling")
	var offset int64
	for {
		if ctx.Err() != nil {
			return
		}
		updates, err := r.client.Updates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("bot: get updates: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollErrorBackoff):
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil || strings.TrimSpace(u.Message.Text) == "" {
				continue
			}
			r.dispatch(ctx, u.Message.Chat.ID, u.Message.Text)
		}
	}
}

// dispatch handles one inbound message and sends the reply. Send failures
// are logged, never propagated.
func (r *Router) dispatch(ctx context.Context, chatID int64, text string) {
	reply := r.Handle(ctx, chatID, text)
	if reply == "" {
		return
	}
	if err := r.client.Send(ctx, chatID, reply); err != nil {
		log.Printf("bot: send reply to chat %d: %v", chatID, err)
	}
}

// Handle routes one message and returns the reply text.
func (r *Router) Handle(ctx context.Context, chatID int64, text string) string {
	text = strings.TrimSpace(text)
	cmd, arg := splitCommand(text)

	switch cmd {
	case "/start", "/help":
		return helpText
	case "/add":
		return r.engine.Start(ctx, dialogue.KindLeaseAdd, chatID)
	case "/remove":
		return r.engine.Start(ctx, dialogue.KindLeaseRemove, chatID)
	case "/vendor":
		return r.engine.Start(ctx, dialogue.KindVendorAdd, chatID)
	case "/editvendor":
		return r.engine.Start(ctx, dialogue.KindVendorEdit, chatID)
	case "/cancel":
		reply, _ := r.engine.Cancel(chatID)
		return reply
	case "/list":
		return r.listLeases(ctx, chatID)
	case "/vendors":
		return r.listVendors(ctx, chatID, arg)
	case "/findvendor":
		return r.findVendors(ctx, chatID, arg)
	case "/vendorinfo":
		return r.vendorInfo(ctx, chatID, arg)
	case "/logout":
		return r.logout(ctx, chatID)
	}

	if strings.HasPrefix(cmd, "/") {
		return "Unknown command. Use /help to see what I can do."
	}

	// Plain text: either a dialogue step or a stray message.
	if reply, active := r.engine.Input(ctx, chatID, text); active {
		return reply
	}
	return "Use /help to see what I can do."
}

func splitCommand(text string) (cmd, arg string) {
	if !strings.HasPrefix(text, "/") {
		return text, ""
	}
	parts := strings.SplitN(text, " ", 2)
	cmd = strings.ToLower(parts[0])
	// Strip the @botname suffix used in group chats.
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

func (r *Router) listLeases(ctx context.Context, chatID int64) string {
	leases, err := r.store.ListLeasesByChat(ctx, chatID)
	if err != nil {
		log.Printf("bot: list leases for chat %d: %v", chatID, err)
		return "Something went wrong. Please try again."
	}
	if len(leases) == 0 {
		return "No leases found. Use /add to create one."
	}
	return "Your leases:\n\n" + dialogue.RenderLeaseList(leases)
}

func (r *Router) listVendors(ctx context.Context, chatID int64, arg string) string {
	find := &store.FindVendor{ChatID: chatID}
	if arg != "" {
		c, ok := models.ParseCategory(arg)
		if !ok {
			return "Unknown category. Categories: plumbing, electrical, contractor, housing, other."
		}
		find.Category = &c
	}
	vendors, err := r.store.ListVendors(ctx, find)
	if err != nil {
		log.Printf("bot: list vendors for chat %d: %v", chatID, err)
		return "Something went wrong. Please try again."
	}
	if len(vendors) == 0 {
		return "No vendors found. Use /vendor to add one."
	}
	return "Your vendors:\n\n" + dialogue.RenderVendorList(vendors) +
		"\n\nUse /vendorinfo <number> for details."
}

func (r *Router) findVendors(ctx context.Context, chatID int64, arg string) string {
	if arg == "" {
		return "Usage: /findvendor <text>"
	}
	vendors, err := r.store.ListVendors(ctx, &store.FindVendor{ChatID: chatID, Query: &arg})
	if err != nil {
		log.Printf("bot: search vendors for chat %d: %v", chatID, err)
		return "Something went wrong. Please try again."
	}
	if len(vendors) == 0 {
		return fmt.Sprintf("No vendors matching %q.", arg)
	}
	return fmt.Sprintf("Vendors matching %q:\n\n%s", arg, dialogue.RenderVendorList(vendors))
}

func (r *Router) vendorInfo(ctx context.Context, chatID int64, arg string) string {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return "Usage: /vendorinfo <number> (from /vendors)"
	}
	vendors, lerr := r.store.ListVendors(ctx, &store.FindVendor{ChatID: chatID})
	if lerr != nil {
		log.Printf("bot: list vendors for chat %d: %v", chatID, lerr)
		return "Something went wrong. Please try again."
	}
	if n > len(vendors) {
		return "No such vendor. Use /vendors to see the list."
	}
	v := vendors[n-1]

	var detail *models.VendorDetail
	if v.Category == models.CategoryHousingAuth {
		d, derr := r.store.GetVendorDetail(ctx, v.ID, chatID)
		if derr == nil {
			detail = d
		}
	}
	notes, nerr := r.store.ListVendorNotes(ctx, v.ID, chatID)
	if nerr != nil {
		notes = nil
	}
	return dialogue.RenderVendor(v, detail, notes)
}

func (r *Router) logout(ctx context.Context, chatID int64) string {
	leases, err := r.store.DeleteAllLeases(ctx, chatID)
	if err != nil {
		log.Printf("bot: logout leases for chat %d: %v", chatID, err)
		return "Something went wrong. Please try again."
	}
	vendors, err := r.store.DeleteAllVendors(ctx, chatID)
	if err != nil {
		log.Printf("bot: logout vendors for chat %d: %v", chatID, err)
		return "Something went wrong. Please try again."
	}
	r.engine.Cancel(chatID)
	log.Printf("bot: logged out chat %d, deleted %d leases and %d vendors", chatID, leases, vendors)
	return "You have been logged out and all your tracked leases and vendors for this chat have been removed."
}

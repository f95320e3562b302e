// Package notify emails a daily digest of batches that are expired or
// about to expire.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/smtp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/config"
	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
	"go.uber.org/zap"
)

type Mailer interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

type SMTPMailer struct {
	cfg config.DigestConfig
}

func NewSMTPMailer(cfg config.DigestConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one HTML message. Authentication is skipped when no
// username is configured.
func (m *SMTPMailer) Send(ctx context.Context, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + m.cfg.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}
	addr := m.cfg.SMTPHost + ":" + strconv.Itoa(m.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{m.cfg.To}, []byte(msg)); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

type Entry struct {
	BatchID         int            `json:"batch_id"`
	ProductID       int            `json:"product_id"`
	ProductName     string         `json:"product_name"`
	Quantity        int            `json:"quantity"`
	Location        string         `json:"location,omitempty"`
	ExpirationDate  time.Time      `json:"expiration_date"`
	DaysUntilExpiry int            `json:"days_until_expiry"`
	Urgency         engine.Urgency `json:"urgency"`
}

type Digest struct {
	Date    time.Time `json:"date"`
	Entries []Entry   `json:"entries"`
}

func (d Digest) Count(u engine.Urgency) int {
	n := 0
	for _, e := range d.Entries {
		if e.Urgency == u {
			n++
		}
	}
	return n
}

type ExpiryDigest struct {
	batches  repo.BatchRepository
	products repo.ProductRepository
	mailer   Mailer
	log      *zap.Logger
	now      func() time.Time
}

func NewExpiryDigest(batches repo.BatchRepository, products repo.ProductRepository, mailer Mailer, log *zap.Logger) *ExpiryDigest {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpiryDigest{
		batches:  batches,
		products: products,
		mailer:   mailer,
		log:      log,
		now:      time.Now,
	}
}

// WithClock sets the clock that picks today's date and the send time.
func (d *ExpiryDigest) WithClock(now func() time.Time) *ExpiryDigest {
	d.now = now
	return d
}

// Build classifies every non-empty batch and keeps the ones that are not
// normal, soonest expiry first.
func (d *ExpiryDigest) Build(ctx context.Context, today time.Time) (Digest, error) {
	batches, err := d.batches.ListNonEmpty(ctx)
	if err != nil {
		return Digest{}, err
	}

	names := map[int]string{}
	digest := Digest{Date: engine.Day(today), Entries: []Entry{}}
	for _, b := range batches {
		urgency, days := engine.ClassifyUrgency(b.ExpirationDate, today)
		if urgency == engine.UrgencyNormal || days == nil {
			continue
		}
		name, err := d.productName(ctx, b.ProductID, names)
		if err != nil {
			return Digest{}, err
		}
		digest.Entries = append(digest.Entries, Entry{
			BatchID:         b.ID,
			ProductID:       b.ProductID,
			ProductName:     name,
			Quantity:        b.Quantity,
			Location:        deref(b.Location),
			ExpirationDate:  *b.ExpirationDate,
			DaysUntilExpiry: *days,
			Urgency:         urgency,
		})
	}

	slices.SortStableFunc(digest.Entries, func(a, b Entry) int {
		if a.DaysUntilExpiry != b.DaysUntilExpiry {
			return a.DaysUntilExpiry - b.DaysUntilExpiry
		}
		return a.BatchID - b.BatchID
	})
	return digest, nil
}

func (d *ExpiryDigest) productName(ctx context.Context, id int, seen map[int]string) (string, error) {
	if name, ok := seen[id]; ok {
		return name, nil
	}
	p, err := d.products.GetByID(ctx, id)
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		seen[id] = fmt.Sprintf("product #%d", id)
	case err != nil:
		return "", err
	default:
		seen[id] = p.Name
	}
	return seen[id], nil
}

// SendOnce mails today's digest. Nothing is sent when no batch needs
// attention; the bool reports whether a mail went out.
func (d *ExpiryDigest) SendOnce(ctx context.Context) (bool, error) {
	digest, err := d.Build(ctx, d.now())
	if err != nil {
		return false, err
	}
	if len(digest.Entries) == 0 {
		d.log.Info("expiry digest skipped, nothing expiring")
		return false, nil
	}

	subject := fmt.Sprintf("Expiry digest %s: %d expired, %d urgent, %d soon",
		digest.Date.Format(time.DateOnly),
		digest.Count(engine.UrgencyExpired),
		digest.Count(engine.UrgencyUrgent),
		digest.Count(engine.UrgencySoon))
	if err := d.mailer.Send(ctx, subject, RenderHTML(digest)); err != nil {
		return false, err
	}
	d.log.Info("expiry digest sent", zap.Int("entries", len(digest.Entries)))
	return true, nil
}

// Run sends the digest every day at 23:59 until ctx is cancelled.
func (d *ExpiryDigest) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(time.Until(nextRun(d.now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if _, err := d.SendOnce(ctx); err != nil {
			d.log.Error("expiry digest failed", zap.Error(err))
		}
	}
}

func nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func RenderHTML(d Digest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h2>Expiry digest for %s</h2>", d.Date.Format(time.DateOnly))

	for _, section := range []struct {
		urgency engine.Urgency
		title   string
	}{
		{engine.UrgencyExpired, "Expired"},
		{engine.UrgencyUrgent, "Expiring within 7 days"},
		{engine.UrgencySoon, "Expiring within 30 days"},
	} {
		if d.Count(section.urgency) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "<h3>%s</h3><ul>", section.title)
		for _, e := range d.Entries {
			if e.Urgency != section.urgency {
				continue
			}
			fmt.Fprintf(&sb, "<li><b>%s</b>: %d units, batch #%d, expires %s",
				html.EscapeString(e.ProductName), e.Quantity, e.BatchID, e.ExpirationDate.Format(time.DateOnly))
			if e.Location != "" {
				fmt.Fprintf(&sb, " (<code>%s</code>)", html.EscapeString(e.Location))
			}
			sb.WriteString("</li>")
		}
		sb.WriteString("</ul>")
	}
	return sb.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

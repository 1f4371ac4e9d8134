package chargebee

import (
	"bytes"
	"encoding/json"
)

// Customer is a Chargebee API v2 customer. The struct carries the commonly
// used fields; Fields() exposes the complete wire object.
type Customer struct {
	ID                       string         `json:"id"`
	FirstName                string         `json:"first_name,omitempty"`
	LastName                 string         `json:"last_name,omitempty"`
	Email                    string         `json:"email,omitempty"`
	Phone                    string         `json:"phone,omitempty"`
	Company                  string         `json:"company,omitempty"`
	VatNumber                string         `json:"vat_number,omitempty"`
	AutoCollection           string         `json:"auto_collection,omitempty"`
	NetTermDays              int64          `json:"net_term_days,omitempty"`
	AllowDirectDebit         bool           `json:"allow_direct_debit,omitempty"`
	CreatedAt                int64          `json:"created_at,omitempty"`
	Taxability               string         `json:"taxability,omitempty"`
	ResourceVersion          int64          `json:"resource_version,omitempty"`
	UpdatedAt                int64          `json:"updated_at,omitempty"`
	Locale                   string         `json:"locale,omitempty"`
	BillingDate              int64          `json:"billing_date,omitempty"`
	BillingDateMode          string         `json:"billing_date_mode,omitempty"`
	CardStatus               string         `json:"card_status,omitempty"`
	FraudFlag                string         `json:"fraud_flag,omitempty"`
	PrimaryPaymentSourceID   string         `json:"primary_payment_source_id,omitempty"`
	BillingAddress           *BillingAddress `json:"billing_address,omitempty"`
	ReferralUrls             []ReferralUrl  `json:"referral_urls,omitempty"`
	Contacts                 []Contact      `json:"contacts,omitempty"`
	PaymentMethod            *PaymentMethod `json:"payment_method,omitempty"`
	InvoiceNotes             string         `json:"invoice_notes,omitempty"`
	PreferredCurrencyCode    string         `json:"preferred_currency_code,omitempty"`
	PromotionalCredits       int64          `json:"promotional_credits,omitempty"`
	UnbilledCharges          int64          `json:"unbilled_charges,omitempty"`
	RefundableCredits        int64          `json:"refundable_credits,omitempty"`
	ExcessPayments           int64          `json:"excess_payments,omitempty"`
	Balances                 []Balance      `json:"balances,omitempty"`
	MetaData                 map[string]any `json:"meta_data,omitempty"`
	Deleted                  bool           `json:"deleted,omitempty"`
	CustomerType             string         `json:"customer_type,omitempty"`
	ClientProfileID          string         `json:"client_profile_id,omitempty"`
	Relationship             *Relationship  `json:"relationship,omitempty"`

	fields map[string]any
}

type BillingAddress struct {
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	Email            string `json:"email,omitempty"`
	Company          string `json:"company,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Line1            string `json:"line1,omitempty"`
	Line2            string `json:"line2,omitempty"`
	Line3            string `json:"line3,omitempty"`
	City             string `json:"city,omitempty"`
	StateCode        string `json:"state_code,omitempty"`
	State            string `json:"state,omitempty"`
	Country          string `json:"country,omitempty"`
	Zip              string `json:"zip,omitempty"`
	ValidationStatus string `json:"validation_status,omitempty"`
}

type ReferralUrl struct {
	ExternalCustomerID         string `json:"external_customer_id,omitempty"`
	ReferralSharingURL         string `json:"referral_sharing_url"`
	CreatedAt                  int64  `json:"created_at,omitempty"`
	UpdatedAt                  int64  `json:"updated_at,omitempty"`
	ReferralCampaignID         string `json:"referral_campaign_id,omitempty"`
	ReferralAccountID          string `json:"referral_account_id,omitempty"`
	ReferralExternalCampaignID string `json:"referral_external_campaign_id,omitempty"`
	ReferralSystem             string `json:"referral_system,omitempty"`
}

type Contact struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Label            string `json:"label,omitempty"`
	Enabled          bool   `json:"enabled,omitempty"`
	SendAccountEmail bool   `json:"send_account_email,omitempty"`
	SendBillingEmail bool   `json:"send_billing_email,omitempty"`
}

type PaymentMethod struct {
	Type             string `json:"type"`
	Gateway          string `json:"gateway"`
	GatewayAccountID string `json:"gateway_account_id,omitempty"`
	Status           string `json:"status"`
	ReferenceID      string `json:"reference_id"`
}

type Balance struct {
	PromotionalCredits  int64  `json:"promotional_credits"`
	ExcessPayments      int64  `json:"excess_payments"`
	RefundableCredits   int64  `json:"refundable_credits"`
	UnbilledCharges     int64  `json:"unbilled_charges"`
	CurrencyCode        string `json:"currency_code"`
	BalanceCurrencyCode string `json:"balance_currency_code"`
}

type Relationship struct {
	ParentID       string `json:"parent_id,omitempty"`
	PaymentOwnerID string `json:"payment_owner_id"`
	InvoiceOwnerID string `json:"invoice_owner_id"`
}

// Subscription is a Chargebee API v2 subscription.
type Subscription struct {
	ID                      string                   `json:"id"`
	CustomerID              string                   `json:"customer_id"`
	CurrencyCode            string                   `json:"currency_code,omitempty"`
	PlanID                  string                   `json:"plan_id,omitempty"`
	PlanQuantity            int64                    `json:"plan_quantity,omitempty"`
	PlanUnitPrice           int64                    `json:"plan_unit_price,omitempty"`
	PlanAmount              int64                    `json:"plan_amount,omitempty"`
	BillingPeriod           int64                    `json:"billing_period,omitempty"`
	BillingPeriodUnit       string                   `json:"billing_period_unit,omitempty"`
	Status                  string                   `json:"status,omitempty"`
	StartDate               int64                    `json:"start_date,omitempty"`
	TrialStart              int64                    `json:"trial_start,omitempty"`
	TrialEnd                int64                    `json:"trial_end,omitempty"`
	CurrentTermStart        int64                    `json:"current_term_start,omitempty"`
	CurrentTermEnd          int64                    `json:"current_term_end,omitempty"`
	NextBillingAt           int64                    `json:"next_billing_at,omitempty"`
	RemainingBillingCycles  int64                    `json:"remaining_billing_cycles,omitempty"`
	PoNumber                string                   `json:"po_number,omitempty"`
	CreatedAt               int64                    `json:"created_at,omitempty"`
	StartedAt               int64                    `json:"started_at,omitempty"`
	ActivatedAt             int64                    `json:"activated_at,omitempty"`
	PauseDate               int64                    `json:"pause_date,omitempty"`
	ResumeDate              int64                    `json:"resume_date,omitempty"`
	CancelledAt             int64                    `json:"cancelled_at,omitempty"`
	CancelReason            string                   `json:"cancel_reason,omitempty"`
	ResourceVersion         int64                    `json:"resource_version,omitempty"`
	UpdatedAt               int64                    `json:"updated_at,omitempty"`
	HasScheduledChanges     bool                     `json:"has_scheduled_changes,omitempty"`
	DueInvoicesCount        int64                    `json:"due_invoices_count,omitempty"`
	DueSince                int64                    `json:"due_since,omitempty"`
	TotalDues               int64                    `json:"total_dues,omitempty"`
	MRR                     int64                    `json:"mrr,omitempty"`
	BaseCurrencyCode        string                   `json:"base_currency_code,omitempty"`
	Addons                  []Addon                  `json:"addons,omitempty"`
	EventBasedAddons        []EventBasedAddon        `json:"event_based_addons,omitempty"`
	ChargedEventBasedAddons []ChargedEventBasedAddon `json:"charged_event_based_addons,omitempty"`
	Coupon                  string                   `json:"coupon,omitempty"`
	Coupons                 []Coupon                 `json:"coupons,omitempty"`
	ShippingAddress         *BillingAddress          `json:"shipping_address,omitempty"`
	InvoiceNotes            string                   `json:"invoice_notes,omitempty"`
	MetaData                map[string]any           `json:"meta_data,omitempty"`
	Deleted                 bool                     `json:"deleted,omitempty"`
	ContractTerm            *ContractTerm            `json:"contract_term,omitempty"`

	fields map[string]any
}

type Addon struct {
	ID                     string `json:"id"`
	Quantity               int64  `json:"quantity,omitempty"`
	UnitPrice              int64  `json:"unit_price,omitempty"`
	Amount                 int64  `json:"amount,omitempty"`
	TrialEnd               int64  `json:"trial_end,omitempty"`
	RemainingBillingCycles int64  `json:"remaining_billing_cycles,omitempty"`
}

type EventBasedAddon struct {
	ID                  string `json:"id"`
	Quantity            int64  `json:"quantity"`
	UnitPrice           int64  `json:"unit_price"`
	ServicePeriodInDays int64  `json:"service_period_in_days,omitempty"`
	OnEvent             string `json:"on_event,omitempty"`
	ChargeOnce          bool   `json:"charge_once,omitempty"`
}

type ChargedEventBasedAddon struct {
	ID            string `json:"id"`
	LastChargedAt int64  `json:"last_charged_at,omitempty"`
}

type Coupon struct {
	CouponID     string `json:"coupon_id"`
	ApplyTill    int64  `json:"apply_till,omitempty"`
	AppliedCount int64  `json:"applied_count,omitempty"`
	CouponCode   string `json:"coupon_code,omitempty"`
}

type ContractTerm struct {
	ID                     string `json:"id"`
	Status                 string `json:"status"`
	ContractStart          int64  `json:"contract_start"`
	ContractEnd            int64  `json:"contract_end"`
	BillingCycle           int64  `json:"billing_cycle"`
	ActionAtTermEnd        string `json:"action_at_term_end"`
	TotalContractValue     int64  `json:"total_contract_value"`
	CreatedAt              int64  `json:"created_at"`
	SubscriptionID         string `json:"subscription_id"`
	RemainingBillingCycles int64  `json:"remaining_billing_cycles,omitempty"`
}

// Card is the payment card bundled with customer and subscription entries.
type Card struct {
	PaymentSourceID  string `json:"payment_source_id,omitempty"`
	Status           string `json:"status,omitempty"`
	Gateway          string `json:"gateway,omitempty"`
	GatewayAccountID string `json:"gateway_account_id,omitempty"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	IIN              string `json:"iin,omitempty"`
	Last4            string `json:"last4,omitempty"`
	CardType         string `json:"card_type,omitempty"`
	FundingType      string `json:"funding_type,omitempty"`
	ExpiryMonth      int64  `json:"expiry_month,omitempty"`
	ExpiryYear       int64  `json:"expiry_year,omitempty"`
	IssuingCountry   string `json:"issuing_country,omitempty"`
	CreatedAt        int64  `json:"created_at,omitempty"`
	ResourceVersion  int64  `json:"resource_version,omitempty"`
	UpdatedAt        int64  `json:"updated_at,omitempty"`
	CustomerID       string `json:"customer_id,omitempty"`
	MaskedNumber     string `json:"masked_number,omitempty"`
}

// Invoice is a Chargebee API v2 invoice.
type Invoice struct {
	ID                  string        `json:"id"`
	PoNumber            string        `json:"po_number,omitempty"`
	CustomerID          string        `json:"customer_id"`
	SubscriptionID      string        `json:"subscription_id,omitempty"`
	Recurring           bool          `json:"recurring,omitempty"`
	Status              string        `json:"status,omitempty"`
	PriceType           string        `json:"price_type,omitempty"`
	Date                int64         `json:"date,omitempty"`
	DueDate             int64         `json:"due_date,omitempty"`
	NetTermDays         int64         `json:"net_term_days,omitempty"`
	CurrencyCode        string        `json:"currency_code,omitempty"`
	Total               int64         `json:"total,omitempty"`
	AmountPaid          int64         `json:"amount_paid,omitempty"`
	AmountAdjusted      int64         `json:"amount_adjusted,omitempty"`
	WriteOffAmount      int64         `json:"write_off_amount,omitempty"`
	CreditsApplied      int64         `json:"credits_applied,omitempty"`
	AmountDue           int64         `json:"amount_due,omitempty"`
	PaidAt              int64         `json:"paid_at,omitempty"`
	DunningStatus       string        `json:"dunning_status,omitempty"`
	NextRetryAt         int64         `json:"next_retry_at,omitempty"`
	VoidedAt            int64         `json:"voided_at,omitempty"`
	ResourceVersion     int64         `json:"resource_version,omitempty"`
	UpdatedAt           int64         `json:"updated_at,omitempty"`
	SubTotal            int64         `json:"sub_total,omitempty"`
	Tax                 int64         `json:"tax,omitempty"`
	FirstInvoice        bool          `json:"first_invoice,omitempty"`
	TermFinalized       bool          `json:"term_finalized,omitempty"`
	IsGifted            bool          `json:"is_gifted,omitempty"`
	ExpectedPaymentDate int64         `json:"expected_payment_date,omitempty"`
	AmountToCollect     int64         `json:"amount_to_collect,omitempty"`
	RoundOffAmount      int64         `json:"round_off_amount,omitempty"`
	LineItems           []LineItem    `json:"line_items,omitempty"`
	LinkedOrders        []LinkedOrder `json:"linked_orders,omitempty"`
	Notes               []Note        `json:"notes,omitempty"`
	ShippingAddress     *BillingAddress `json:"shipping_address,omitempty"`
	BillingAddress      *BillingAddress `json:"billing_address,omitempty"`
	PaymentOwner        string        `json:"payment_owner,omitempty"`
	Deleted             bool          `json:"deleted,omitempty"`

	fields map[string]any
}

type LineItem struct {
	ID                      string  `json:"id,omitempty"`
	SubscriptionID          string  `json:"subscription_id,omitempty"`
	DateFrom                int64   `json:"date_from,omitempty"`
	DateTo                  int64   `json:"date_to,omitempty"`
	UnitAmount              int64   `json:"unit_amount,omitempty"`
	Quantity                int64   `json:"quantity,omitempty"`
	Amount                  int64   `json:"amount,omitempty"`
	PricingModel            string  `json:"pricing_model,omitempty"`
	IsTaxed                 bool    `json:"is_taxed,omitempty"`
	TaxAmount               int64   `json:"tax_amount,omitempty"`
	TaxRate                 float64 `json:"tax_rate,omitempty"`
	DiscountAmount          int64   `json:"discount_amount,omitempty"`
	ItemLevelDiscountAmount int64   `json:"item_level_discount_amount,omitempty"`
	Description             string  `json:"description,omitempty"`
	EntityDescription       string  `json:"entity_description,omitempty"`
	EntityType              string  `json:"entity_type,omitempty"`
	EntityID                string  `json:"entity_id,omitempty"`
	CustomerID              string  `json:"customer_id,omitempty"`
}

type LinkedOrder struct {
	ID                string `json:"id"`
	DocumentNumber    string `json:"document_number,omitempty"`
	Status            string `json:"status,omitempty"`
	OrderType         string `json:"order_type,omitempty"`
	ReferenceID       string `json:"reference_id,omitempty"`
	FulfillmentStatus string `json:"fulfillment_status,omitempty"`
	BatchID           string `json:"batch_id,omitempty"`
	CreatedAt         int64  `json:"created_at,omitempty"`
}

type Note struct {
	EntityType string `json:"entity_type"`
	Note       string `json:"note"`
	EntityID   string `json:"entity_id,omitempty"`
}

// Event is a Chargebee API v2 event envelope.
type Event struct {
	ID            string       `json:"id"`
	OccurredAt    int64        `json:"occurred_at"`
	Source        string       `json:"source,omitempty"`
	User          string       `json:"user,omitempty"`
	EventType     EventType    `json:"event_type"`
	APIVersion    string       `json:"api_version,omitempty"`
	WebhookStatus string       `json:"webhook_status,omitempty"`
	Content       EventContent `json:"content"`
}

// EventContent carries the entities embedded in an event. Which ones are
// present depends on the event type.
type EventContent struct {
	Customer     *Customer     `json:"customer,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
	Invoice      *Invoice      `json:"invoice,omitempty"`
	Card         *Card         `json:"card,omitempty"`
}

// decodeFields keeps the complete wire object next to the typed struct.
// Numbers stay json.Number and a JSON null stays in the map as a nil value,
// distinct from an absent key.
func decodeFields(data []byte) (map[string]any, error) {
	fields := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *Customer) UnmarshalJSON(data []byte) error {
	type alias Customer
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	*c = Customer(a)
	c.fields = fields
	return nil
}

func (c Customer) MarshalJSON() ([]byte, error) {
	if c.fields != nil {
		return json.Marshal(c.fields)
	}
	type alias Customer
	return json.Marshal(alias(c))
}

// Fields returns the raw wire object the customer was decoded from. For a
// customer built in code the map is synthesized from the struct.
func (c *Customer) Fields() map[string]any {
	if c.fields == nil {
		if raw, err := json.Marshal(c); err == nil {
			c.fields, _ = decodeFields(raw)
		}
	}
	return c.fields
}

func (s *Subscription) UnmarshalJSON(data []byte) error {
	type alias Subscription
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	*s = Subscription(a)
	s.fields = fields
	return nil
}

func (s Subscription) MarshalJSON() ([]byte, error) {
	if s.fields != nil {
		return json.Marshal(s.fields)
	}
	type alias Subscription
	return json.Marshal(alias(s))
}

// Fields returns the raw wire object the subscription was decoded from. For
// a subscription built in code the map is synthesized from the struct.
func (s *Subscription) Fields() map[string]any {
	if s.fields == nil {
		if raw, err := json.Marshal(s); err == nil {
			s.fields, _ = decodeFields(raw)
		}
	}
	return s.fields
}

func (i *Invoice) UnmarshalJSON(data []byte) error {
	type alias Invoice
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	*i = Invoice(a)
	i.fields = fields
	return nil
}

func (i Invoice) MarshalJSON() ([]byte, error) {
	if i.fields != nil {
		return json.Marshal(i.fields)
	}
	type alias Invoice
	return json.Marshal(alias(i))
}

// Fields returns the raw wire object the invoice was decoded from. For an
// invoice built in code the map is synthesized from the struct.
func (i *Invoice) Fields() map[string]any {
	if i.fields == nil {
		if raw, err := json.Marshal(i); err == nil {
			i.fields, _ = decodeFields(raw)
		}
	}
	return i.fields
}

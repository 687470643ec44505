package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
)

// Intents the classifier is allowed to emit. Anything else degrades
// to the planner's generic fallback task rather than erroring.
const (
	IntentFindListings      = "find_listings"
	IntentPriceForecast     = "price_forecast"
	IntentLegalVerification = "legal_verification"
	IntentBuilderReputation = "builder_reputation"
	IntentCompareLocations  = "compare_locations"
	IntentCheckFreshness    = "check_freshness"
)

// Conventional slot keys. Slots are open-ended; these are the ones
// the planner reads.
const (
	SlotPropertyType = "property_type"
	SlotMaxPriceINR  = "max_price_inr"
	SlotLocation     = "location"
	SlotNear         = "near"
	SlotReraStatus   = "rera_status"
	SlotListingIDs   = "listing_ids"
)

const defaultClassifierVersion = "intent-clf-v1.0"

var validate = validator.New()

/**
 * IntentClassification is the structured output of the hosted intent
 * model. The core never trusts it blindly: Validate() enforces the
 * contract before a plan is built from it.
 */
type IntentClassification struct {
	Intent string `json:"intent" validate:"required"`
	// Slots may legitimately be empty; it only has to be an object.
	Slots        Data    `json:"slots"`
	Confidence   float64 `json:"confidence" validate:"gte=0,lte=1"`
	ModelVersion string  `json:"model_version"`
}

func (c *IntentClassification) Validate() error {
	if c.ModelVersion == "" {
		c.ModelVersion = defaultClassifierVersion
	}
	if c.Slots == nil {
		c.Slots = Data{}
	}
	if err := validate.Struct(c); err != nil {
		return errors.Annotatef(err, "intent classification rejected")
	}
	return nil
}

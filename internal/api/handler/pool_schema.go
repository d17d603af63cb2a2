package handler

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/adroid/pool-registry/internal/core/ports"
)

// digits is a numeric code such as a phone number or ZIP code. Clients send it
// either as a JSON string or as a JSON number; both keep the decimal text.
type digits string

func (d *digits) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = digits(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = digits(n.String())
	return nil
}

// poolRequest is the body of POST /pools and PUT /pools/:id. Update is a full
// replace, so both share the same rules.
type poolRequest struct {
	HomeOwnerName string `json:"homeOwnerName" validate:"required,max=100"`
	Phone         digits `json:"phone"         validate:"required,phone"`
	Address       string `json:"address"       validate:"required,max=200"`
	City          string `json:"city"          validate:"required,max=50"`
	State         string `json:"state"         validate:"required,max=50"`
	ZipCode       digits `json:"zipCode"       validate:"required,zipcode"`

	Length  *float64 `json:"length"  validate:"required,min=1"`
	Width   *float64 `json:"width"   validate:"required,min=1"`
	Gallons *int     `json:"gallons" validate:"required,min=1"`

	HowManyInlets   *int `json:"howManyInlets"   validate:"required,min=0"`
	HowManySkimmers *int `json:"howManySkimmers" validate:"required,min=0"`
	HowManyLadders  *int `json:"howManyLadders"  validate:"required,min=0"`
	HowManySteps    *int `json:"howManySteps"    validate:"required,min=0"`

	FilterBrand  string `json:"filterBrand"  validate:"max=50"`
	FilterModel  string `json:"filterModel"  validate:"max=50"`
	FilterSerial string `json:"filterSerial" validate:"max=50"`

	PumpBrand  string `json:"pumpBrand"  validate:"max=50"`
	PumpModel  string `json:"pumpModel"  validate:"max=50"`
	PumpSerial string `json:"pumpSerial" validate:"max=50"`

	HeaterBrandNG  string `json:"heaterBrandNG"  validate:"max=50"`
	HeaterModelNG  string `json:"heaterModelNG"  validate:"max=50"`
	HeaterSerialNG string `json:"heaterSerialNG" validate:"max=50"`

	HeaterBrandCBMS  string `json:"heaterBrandCBMS"  validate:"max=50"`
	HeaterModelCBMS  string `json:"heaterModelCBMS"  validate:"max=50"`
	HeaterSerialCBMS string `json:"heaterSerialCBMS" validate:"max=50"`

	PoolCleanerBrand  string `json:"poolCleanerBrand"  validate:"max=50"`
	PoolCleanerModel  string `json:"poolCleanerModel"  validate:"max=50"`
	PoolCleanerSerial string `json:"poolCleanerSerial" validate:"max=50"`
}

func (r *poolRequest) normalize() {
	for _, s := range []*string{
		&r.HomeOwnerName, &r.Address, &r.City, &r.State,
		&r.FilterBrand, &r.FilterModel, &r.FilterSerial,
		&r.PumpBrand, &r.PumpModel, &r.PumpSerial,
		&r.HeaterBrandNG, &r.HeaterModelNG, &r.HeaterSerialNG,
		&r.HeaterBrandCBMS, &r.HeaterModelCBMS, &r.HeaterSerialCBMS,
		&r.PoolCleanerBrand, &r.PoolCleanerModel, &r.PoolCleanerSerial,
	} {
		*s = strings.TrimSpace(*s)
	}
	r.Phone = digits(strings.TrimSpace(string(r.Phone)))
	r.ZipCode = digits(strings.TrimSpace(string(r.ZipCode)))
}

// toInput must only be called after validation, which guarantees the
// numeric pointers are set.
func (r *poolRequest) toInput() ports.PoolInput {
	return ports.PoolInput{
		HomeOwnerName: r.HomeOwnerName,
		Phone:         string(r.Phone),
		Address:       r.Address,
		City:          r.City,
		State:         r.State,
		ZipCode:       string(r.ZipCode),

		Length:  *r.Length,
		Width:   *r.Width,
		Gallons: *r.Gallons,

		HowManyInlets:   *r.HowManyInlets,
		HowManySkimmers: *r.HowManySkimmers,
		HowManyLadders:  *r.HowManyLadders,
		HowManySteps:    *r.HowManySteps,

		Filter:      ports.EquipmentInput{Brand: r.FilterBrand, Model: r.FilterModel, Serial: r.FilterSerial},
		Pump:        ports.EquipmentInput{Brand: r.PumpBrand, Model: r.PumpModel, Serial: r.PumpSerial},
		HeaterNG:    ports.EquipmentInput{Brand: r.HeaterBrandNG, Model: r.HeaterModelNG, Serial: r.HeaterSerialNG},
		HeaterCBMS:  ports.EquipmentInput{Brand: r.HeaterBrandCBMS, Model: r.HeaterModelCBMS, Serial: r.HeaterSerialCBMS},
		PoolCleaner: ports.EquipmentInput{Brand: r.PoolCleanerBrand, Model: r.PoolCleanerModel, Serial: r.PoolCleanerSerial},
	}
}

package domain

import "time"

// Pool is a swimming-pool equipment record.
//
// UserID is a weak reference to the user that created the record. It is only
// used to resolve CreatedByName at read time and is cleared when that user is
// removed.
type Pool struct {
	ID string `json:"id"`

	HomeOwnerName string `json:"homeOwnerName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`

	Length  float64 `json:"length"`
	Width   float64 `json:"width"`
	Gallons int     `json:"gallons"`

	HowManyInlets   int `json:"howManyInlets"`
	HowManySkimmers int `json:"howManySkimmers"`
	HowManyLadders  int `json:"howManyLadders"`
	HowManySteps    int `json:"howManySteps"`

	FilterBrand  string `json:"filterBrand"`
	FilterModel  string `json:"filterModel"`
	FilterSerial string `json:"filterSerial"`

	PumpBrand  string `json:"pumpBrand"`
	PumpModel  string `json:"pumpModel"`
	PumpSerial string `json:"pumpSerial"`

	HeaterBrandNG  string `json:"heaterBrandNG"`
	HeaterModelNG  string `json:"heaterModelNG"`
	HeaterSerialNG string `json:"heaterSerialNG"`

	HeaterBrandCBMS  string `json:"heaterBrandCBMS"`
	HeaterModelCBMS  string `json:"heaterModelCBMS"`
	HeaterSerialCBMS string `json:"heaterSerialCBMS"`

	PoolCleanerBrand  string `json:"poolCleanerBrand"`
	PoolCleanerModel  string `json:"poolCleanerModel"`
	PoolCleanerSerial string `json:"poolCleanerSerial"`

	UserID        string `json:"userId,omitempty"`
	CreatedByName string `json:"createdByName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a shallow copy of p.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

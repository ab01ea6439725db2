package hue

import (
	"github.com/google/uuid"
)

// ProductData is the product description of a device
type ProductData struct {
	ModelID          string `json:"model_id"`
	ManufacturerName string `json:"manufacturer_name"`
	ProductName      string `json:"product_name"`
	ProductArchetype string `json:"product_archetype"`
	Certified        bool   `json:"certified"`
	SoftwareVersion  string `json:"software_version"`
}

// Device is a physical device paired with the bridge
type Device struct {
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	Product  ProductData          `json:"product"`
	Services []ResourceIdentifier `json:"services"`
}

func newDevice(r deviceResource) Device {
	return Device{
		ID:       r.ID,
		Name:     r.Metadata.Name,
		Product:  r.ProductData,
		Services: r.Services,
	}
}

// LightIDs returns the IDs of the light services of the device
func (d Device) LightIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, s := range d.Services {
		if s.RType == "light" {
			ids = append(ids, s.RID)
		}
	}
	return ids
}

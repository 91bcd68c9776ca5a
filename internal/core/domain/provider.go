// internal/core/domain/provider.go
package domain

import (
	"fmt"
	"strings"
)

// Provider is a mobile carrier brand that groups vouchers.
type Provider struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Validate checks the provider fields.
func (p Provider) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidProvider)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProvider)
	}
	return nil
}

// AutoProviderName is the name given to providers created implicitly by an
// import row that references an unknown provider id.
func AutoProviderName(id int) string {
	return fmt.Sprintf("Provider %d", id)
}

// DefaultProviders is the catalogue used when nothing has been persisted yet.
func DefaultProviders() []Provider {
	return []Provider{
		{ID: 1, Name: "Telkomsel", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/b/bc/Telkomsel_2021_icon.svg"},
		{ID: 2, Name: "IM3", LogoURL: "https://im3-img.indosatooredoo.com/indosatassets/images/icons/icon-512x512.png"},
		{ID: 3, Name: "Three", LogoURL: "https://iconape.com/wp-content/png_logo_vector/3-logo-2.png"},
		{ID: 4, Name: "XL", LogoURL: "https://static.vecteezy.com/system/resources/previews/071/673/737/non_2x/xl-axiata-logo-glossy-square-xl-axiata-telecom-symbol-free-png.png"},
		{ID: 5, Name: "Axis", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/8/83/Axis_logo_2015.svg/1200px-Axis_logo_2015.svg.png"},
		{ID: 6, Name: "Smartfren", LogoURL: "https://images.seeklogo.com/logo-png/20/2/smartfren-logo-png_seeklogo-202951.png"},
		{ID: 7, Name: "By.U", LogoURL: "https://bigrit.com/wp-content/uploads/2020/11/byu.png"},
	}
}

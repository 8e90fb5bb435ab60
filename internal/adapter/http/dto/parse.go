package dto

import (
	"errors"

	"asset-exchange/internal/core/domain"
	"asset-exchange/pkg/apperror"
)

// ParseQuantity parses a transfer or issue quantity such as "12.5000 SYM".
func ParseQuantity(raw string) (domain.Asset, error) {
	a, err := domain.ParseAsset(raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSymbol) {
			return domain.Asset{}, apperror.ErrInvalidSymbol()
		}
		return domain.Asset{}, apperror.ErrInvalidQuantity("invalid quantity")
	}
	return a, nil
}

// ParseSupply parses the maximum supply of a new asset type.
func ParseSupply(raw string) (domain.Asset, error) {
	a, err := domain.ParseAsset(raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSymbol) {
			return domain.Asset{}, apperror.ErrInvalidSupply("invalid symbol name")
		}
		return domain.Asset{}, apperror.ErrInvalidSupply("invalid supply")
	}
	return a, nil
}

package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/structfi/bondledger/internal/types"
)

// Precision is the fixed-point scale of dividend accumulator values.
// acc_per_unit is denominated in 1e-18ths of the payment asset per bond unit.
var Precision = mustBigInt("1000000000000000000")

func mustBigInt(s string) types.BigInt {
	b, err := types.NewBigIntFromString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Tranche is the seniority tier of a bond class. It determines the payout
// order of waterfall distributions.
type Tranche string

const (
	TrancheStandard Tranche = "standard"
	TrancheSenior   Tranche = "senior"
	TrancheJunior   Tranche = "junior"
)

// IsValidTranche checks if a tranche value is one of the known tiers
func IsValidTranche(t Tranche) bool {
	return t == TrancheStandard || t == TrancheSenior || t == TrancheJunior
}

// AssetKind distinguishes the chain-native payment asset from fungible
// contract-backed assets.
type AssetKind string

const (
	AssetKindNative   AssetKind = "native"
	AssetKindFungible AssetKind = "fungible"
)

// nativeAssetID is the canonical identifier of the native payment asset
const nativeAssetID = "native"

// Asset identifies a payment asset as a tagged variant: either the native
// asset or a fungible token contract. The string form ("native" or
// "erc20:<address>") is what gets persisted and reported.
type Asset struct {
	Kind     AssetKind
	Contract string
}

// NativeAsset returns the native payment asset
func NativeAsset() Asset {
	return Asset{Kind: AssetKindNative}
}

// FungibleAsset returns a fungible asset backed by the given token contract
func FungibleAsset(contract string) Asset {
	return Asset{Kind: AssetKindFungible, Contract: common.HexToAddress(contract).Hex()}
}

// ParseAsset parses the persisted string form of an asset identifier
func ParseAsset(s string) (Asset, error) {
	if s == nativeAssetID {
		return NativeAsset(), nil
	}
	if contract, ok := strings.CutPrefix(s, "erc20:"); ok {
		if !common.IsHexAddress(contract) {
			return Asset{}, fmt.Errorf("invalid fungible asset contract: %q", contract)
		}
		return FungibleAsset(contract), nil
	}
	return Asset{}, fmt.Errorf("invalid asset identifier: %q", s)
}

// String returns the canonical identifier of the asset
func (a Asset) String() string {
	if a.Kind == AssetKindNative {
		return nativeAssetID
	}
	return "erc20:" + a.Contract
}

// Valid checks structural validity of the asset variant
func (a Asset) Valid() bool {
	switch a.Kind {
	case AssetKindNative:
		return a.Contract == ""
	case AssetKindFungible:
		return common.IsHexAddress(a.Contract)
	default:
		return false
	}
}

// IsNative reports whether the asset is the chain-native one
func (a Asset) IsNative() bool {
	return a.Kind == AssetKindNative
}

// SupplyCapScope selects how a class's max supply caps issuance. Observed
// behavior of single-nonce deployments does not pin this down, so it is an
// explicit deployment policy rather than a hardcoded choice.
type SupplyCapScope string

const (
	// SupplyCapPerClass caps cumulative issuance across all nonces of a class
	SupplyCapPerClass SupplyCapScope = "class"
	// SupplyCapPerNonce caps each nonce's issuance independently
	SupplyCapPerNonce SupplyCapScope = "nonce"
)

// IsValidSupplyCapScope checks if a scope value is known
func IsValidSupplyCapScope(s SupplyCapScope) bool {
	return s == SupplyCapPerClass || s == SupplyCapPerNonce
}

// BondLeg addresses one (class, nonce, amount) triple within a multi-series
// issue/transfer/redeem/burn operation. The whole operation commits or rolls
// back as a unit; there is no partial success across legs.
type BondLeg struct {
	ClassID uint64       `json:"class_id"`
	NonceID uint64       `json:"nonce_id"`
	Amount  types.BigInt `json:"amount"`
}

package payments

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/structfi/bondledger/internal/adapter"
	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/logger"
	"github.com/structfi/bondledger/internal/types"
)

const erc20ABI = `[
	{"name":"transfer","type":"function","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"transferFrom","type":"function","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// EVMTransferor moves assets on an EVM chain out of a treasury account.
// Fungible pulls use transferFrom and therefore require the payer to have
// approved the treasury beforehand; native deposits are collected out of band
// and Pull of the native asset is a no-op.
type EVMTransferor struct {
	client   adapter.EthClient
	key      *ecdsa.PrivateKey
	treasury common.Address
	chainID  *big.Int
	erc20    abi.ABI
}

// NewEVMTransferor creates a transferor signing with the given hex-encoded
// treasury private key
func NewEVMTransferor(client adapter.EthClient, treasuryKeyHex string, chainID int64) (*EVMTransferor, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(treasuryKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse treasury key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}

	return &EVMTransferor{
		client:   client,
		key:      key,
		treasury: crypto.PubkeyToAddress(key.PublicKey),
		chainID:  big.NewInt(chainID),
		erc20:    parsed,
	}, nil
}

// Treasury returns the treasury account address
func (t *EVMTransferor) Treasury() string {
	return t.treasury.Hex()
}

func (t *EVMTransferor) Pull(ctx context.Context, from string, asset domain.Asset, amount types.BigInt) error {
	if asset.IsNative() {
		// no on-chain pull primitive for the native asset
		return nil
	}

	data, err := t.erc20.Pack("transferFrom", common.HexToAddress(from), t.treasury, amount.Int())
	if err != nil {
		return fmt.Errorf("failed to encode transferFrom: %w", err)
	}

	contract := common.HexToAddress(asset.Contract)
	if err := t.send(ctx, contract, big.NewInt(0), data); err != nil {
		return fmt.Errorf("failed to pull %s of %s from %s: %w", amount.String(), asset.String(), from, err)
	}

	logger.Info("collected fungible deposit",
		zap.String("asset", asset.String()),
		zap.String("from", from),
		zap.String("amount", amount.String()))
	return nil
}

func (t *EVMTransferor) Push(ctx context.Context, to string, asset domain.Asset, amount types.BigInt) error {
	var (
		err      error
		dest     common.Address
		value    = big.NewInt(0)
		calldata []byte
	)

	if asset.IsNative() {
		dest = common.HexToAddress(to)
		value = amount.Int()
	} else {
		dest = common.HexToAddress(asset.Contract)
		calldata, err = t.erc20.Pack("transfer", common.HexToAddress(to), amount.Int())
		if err != nil {
			return fmt.Errorf("failed to encode transfer: %w", err)
		}
	}

	if err := t.send(ctx, dest, value, calldata); err != nil {
		return fmt.Errorf("failed to push %s of %s to %s: %w", amount.String(), asset.String(), to, err)
	}

	logger.Info("paid out",
		zap.String("asset", asset.String()),
		zap.String("to", to),
		zap.String("amount", amount.String()))
	return nil
}

// send signs and broadcasts one transaction from the treasury
func (t *EVMTransferor) send(ctx context.Context, to common.Address, value *big.Int, data []byte) error {
	nonce, err := t.client.PendingNonceAt(ctx, t.treasury)
	if err != nil {
		return fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := t.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := t.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  t.treasury,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(t.chainID), t.key)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	return t.client.SendTransaction(ctx, signed)
}

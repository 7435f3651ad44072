package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// The document store serializes as JSONL: one record per line, each line
// tagged with a "record" discriminator. Decimal-valued fields travel as
// strings so nothing is lost to binary floating point on the way through
// storage.

type recordKind string

const (
	recTransaction recordKind = "transaction"
	recAsset       recordKind = "asset"
	recLiability   recordKind = "liability"
	recPayment     recordKind = "payment"
)

type record struct {
	Record      recordKind        `json:"record"`
	Transaction *Transaction      `json:"transaction,omitempty"`
	Asset       *Asset            `json:"asset,omitempty"`
	Liability   *Liability        `json:"liability,omitempty"`
	Payment     *LiabilityPayment `json:"payment,omitempty"`
}

// DecodeStore reads a JSONL document stream into a fresh MemoryStore.
func DecodeStore(r io.Reader) (*MemoryStore, error) {
	store := NewMemoryStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		switch rec.Record {
		case recTransaction:
			if rec.Transaction == nil {
				return nil, fmt.Errorf("line %d: transaction record without payload", line)
			}
			if err := rec.Transaction.Validate(); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			store.transactions = append(store.transactions, *rec.Transaction)
		case recAsset:
			if rec.Asset == nil {
				return nil, fmt.Errorf("line %d: asset record without payload", line)
			}
			store.assets = append(store.assets, *rec.Asset)
		case recLiability:
			if rec.Liability == nil {
				return nil, fmt.Errorf("line %d: liability record without payload", line)
			}
			store.liabilities = append(store.liabilities, *rec.Liability)
		case recPayment:
			if rec.Payment == nil {
				return nil, fmt.Errorf("line %d: payment record without payload", line)
			}
			p := *rec.Payment
			store.payments[p.LiabilityID] = append(store.payments[p.LiabilityID], p)
		default:
			return nil, fmt.Errorf("line %d: unknown record kind %q", line, rec.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document stream: %w", err)
	}
	return store, nil
}

// EncodeStore writes the store's source-of-truth records as JSONL. Derived
// holdings are not written: they are recomputed from the logs on load.
func EncodeStore(w io.Writer, store *MemoryStore) error {
	enc := json.NewEncoder(w)
	for i := range store.assets {
		if err := enc.Encode(record{Record: recAsset, Asset: &store.assets[i]}); err != nil {
			return fmt.Errorf("encode asset: %w", err)
		}
	}
	for i := range store.liabilities {
		if err := enc.Encode(record{Record: recLiability, Liability: &store.liabilities[i]}); err != nil {
			return fmt.Errorf("encode liability: %w", err)
		}
	}
	for i := range store.transactions {
		if err := enc.Encode(record{Record: recTransaction, Transaction: &store.transactions[i]}); err != nil {
			return fmt.Errorf("encode transaction: %w", err)
		}
	}
	for _, ps := range store.payments {
		for i := range ps {
			if err := enc.Encode(record{Record: recPayment, Payment: &ps[i]}); err != nil {
				return fmt.Errorf("encode payment: %w", err)
			}
		}
	}
	return nil
}

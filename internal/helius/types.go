package helius

// TokenMetadata is the flattened name/symbol result for one mint.
type TokenMetadata struct {
	Mint   string `json:"mint"`
	Name   string `json:"name,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

type tokenMetadataRequest struct {
	MintAccounts []string `json:"mintAccounts"`
}

type tokenMetadataResponse struct {
	Account          string            `json:"account"`
	OnChainMetadata  *onChainMetadata  `json:"onChainMetadata,omitempty"`
	OffChainMetadata *offChainMetadata `json:"offChainMetadata,omitempty"`
}

type onChainMetadata struct {
	Metadata *struct {
		Data struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"data"`
	} `json:"metadata,omitempty"`
}

type offChainMetadata struct {
	Metadata *struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"metadata,omitempty"`
}

// Webhook is the Helius webhook configuration object.
type Webhook struct {
	WebhookID        string   `json:"webhookID,omitempty"`
	WebhookURL       string   `json:"webhookURL"`
	TransactionTypes []string `json:"transactionTypes,omitempty"`
	AccountAddresses []string `json:"accountAddresses"`
	WebhookType      string   `json:"webhookType,omitempty"`
	TxnStatus        string   `json:"txnStatus,omitempty"`
	AuthHeader       string   `json:"authHeader,omitempty"`
}

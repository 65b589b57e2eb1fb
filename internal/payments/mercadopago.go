package payments

import (
	"context"
	"errors"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/igestaos-eng/barbearia/internal/models"
)

var ErrNotConfigured = errors.New("mercado_pago_not_configured")

// Gateway cria cobranças pix de sinal para um agendamento.
// O valor é o preço congelado na reserva, nunca o preço atual do serviço.
type Gateway struct {
	client payment.Client
}

func NewGateway(accessToken string) (*Gateway, error) {
	if accessToken == "" {
		return nil, ErrNotConfigured
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	return &Gateway{client: payment.NewClient(cfg)}, nil
}

type Charge struct {
	ProviderID int     `json:"provider_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
}

func (g *Gateway) CreateDepositCharge(
	ctx context.Context,
	ap *models.Appointment,
	payerEmail string,
) (*Charge, error) {

	if g == nil || g.client == nil {
		return nil, ErrNotConfigured
	}

	req := payment.Request{
		TransactionAmount: ap.Price,
		Description: fmt.Sprintf(
			"Sinal do agendamento %s",
			ap.PublicRef,
		),
		PaymentMethodID: "pix",
		Payer: &payment.PayerRequest{
			Email: payerEmail,
		},
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Charge{
		ProviderID: resp.ID,
		Status:     resp.Status,
		Amount:     ap.Price,
	}, nil
}

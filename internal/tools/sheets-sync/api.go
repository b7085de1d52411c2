package sheetssync

import (
	"context"

	"google.golang.org/api/sheets/v4"
)

// ValuesAPI is the subset of the Sheets API the sync uses.
type ValuesAPI interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]interface{}) (*sheets.AppendValuesResponse, error)
}

type Connector func(ctx context.Context) (ValuesAPI, error)

type serviceAPI struct {
	svc *sheets.Service
}

func NewServiceAPI(svc *sheets.Service) ValuesAPI {
	return &serviceAPI{svc: svc}
}

func (s *serviceAPI) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	res, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

func (s *serviceAPI) Append(ctx context.Context, spreadsheetID, rng string, rows [][]interface{}) (*sheets.AppendValuesResponse, error) {
	return s.svc.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
}

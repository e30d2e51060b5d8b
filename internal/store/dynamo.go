// Package store reads the external content table. The table is written by
// the ingestion pipeline and is eventually consistent; this adapter only ever
// scans, it never writes.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/feedfolio/core/internal/config"
	"github.com/feedfolio/core/internal/models"
	"github.com/feedfolio/core/internal/modules/content/classify"
	"go.uber.org/zap"
)

const defaultScanPageLimit = 100

// ScanAPI is the slice of the DynamoDB client the adapter uses.
type ScanAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Adapter wraps the content table's paginated full scan.
type Adapter struct {
	client    ScanAPI
	table     string
	pageLimit int32
	logger    *zap.Logger
	now       func() time.Time
}

// New builds an Adapter from runtime config, creating a real DynamoDB client.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Adapter, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.DynamoDB.Region),
	}
	if cfg.DynamoDB.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.DynamoDB.AccessKeyID, cfg.DynamoDB.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})

	return NewWithClient(client, cfg.DynamoDB.Table, cfg.DynamoDB.ScanPageLimit, logger), nil
}

// NewWithClient builds an Adapter around an existing client. Tests use this
// with a fake ScanAPI.
func NewWithClient(client ScanAPI, table string, pageLimit int, logger *zap.Logger) *Adapter {
	if pageLimit <= 0 {
		pageLimit = defaultScanPageLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		client:    client,
		table:     table,
		pageLimit: int32(pageLimit),
		logger:    logger,
		now:       time.Now,
	}
}

// FetchAll scans the whole table, following the continuation cursor until the
// store reports none remaining, and returns every record sorted by
// publication date descending.
//
// On failure it logs, and returns an empty slice together with the error:
// callers must treat that as "unknown/degraded", never as "confirmed empty".
func (a *Adapter) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	var (
		records  []models.RawRecord
		startKey map[string]ddbtypes.AttributeValue
	)

	for {
		out, err := a.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(a.table),
			Limit:             aws.Int32(a.pageLimit),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			a.logger.Error("content table scan failed",
				zap.String("table", a.table),
				zap.Int("records_so_far", len(records)),
				zap.Error(err),
			)
			return []models.RawRecord{}, err
		}

		var page []models.RawRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			a.logger.Error("content table page decode failed",
				zap.String("table", a.table),
				zap.Error(err),
			)
			return []models.RawRecord{}, err
		}
		records = append(records, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	a.sortByDateDesc(records)
	return records, nil
}

func (a *Adapter) sortByDateDesc(records []models.RawRecord) {
	now := a.now()
	sort.SliceStable(records, func(i, j int) bool {
		return recordDate(records[i], now).After(recordDate(records[j], now))
	})
}

func recordDate(r models.RawRecord, now time.Time) time.Time {
	if t, ok := classify.ParseDate(r.DatePublished); ok {
		return t
	}
	if t, ok := classify.ParseDate(r.ProcessedAt); ok {
		return t
	}
	return now
}

// Package dynamodb implements lockservice.TaskCatalog against a DynamoDB
// table keyed by task id, for deployments that already run their task
// metadata store on DynamoDB.
package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/observability/logger"
)

// Config holds connection settings for the DynamoDB task catalog.
type Config struct {
	Region           string
	Endpoint         string
	AccessKeyID      string
	SecretAccessKey  string
	SessionToken     string
	TableName        string
	OperationTimeout time.Duration
}

// Catalog is a lockservice.TaskCatalog backed by DynamoDB.
type Catalog struct {
	client  *dynamodb.Client
	table   string
	timeout time.Duration
	log     logger.Logger
}

func New(ctx context.Context, cfg Config, log logger.Logger) (*Catalog, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("catalog/dynamodb: region is required")
	}
	if cfg.TableName == "" {
		return nil, fmt.Errorf("catalog/dynamodb: table name is required")
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.NewNoop()
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("catalog/dynamodb: load aws config: %w", err)
	}

	var opts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *dynamodb.Options) { o.BaseEndpoint = aws.String(cfg.Endpoint) })
	}
	client := dynamodb.NewFromConfig(awsCfg, opts...)
	log.Info("dynamodb task catalog initialized", "table", cfg.TableName, "region", cfg.Region)
	return &Catalog{client: client, table: cfg.TableName, timeout: cfg.OperationTimeout, log: log}, nil
}

// HealthCheck confirms the backing table is reachable, satisfying
// health.Checkable.
func (c *Catalog) HealthCheck(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	_, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(c.table)})
	return err
}

func (c *Catalog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Catalog) Get(ctx context.Context, taskID string) (lockservice.TaskInfo, error) {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.client.GetItem(opCtx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key: map[string]types.AttributeValue{
			"taskId": &types.AttributeValueMemberS{Value: taskID},
		},
	})
	if err != nil {
		return lockservice.TaskInfo{}, fmt.Errorf("catalog/dynamodb: get %s: %w", taskID, err)
	}
	if out.Item == nil {
		return lockservice.TaskInfo{}, lockservice.ErrTaskNotFound
	}
	return itemToTaskInfo(taskID, out.Item), nil
}

func (c *Catalog) ActiveTasksInGroup(ctx context.Context, groupID string) ([]lockservice.TaskInfo, error) {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.client.Scan(opCtx, &dynamodb.ScanInput{
		TableName:        aws.String(c.table),
		FilterExpression: aws.String("groupId = :g AND active = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberS{Value: groupID},
			":a": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog/dynamodb: scan group %s: %w", groupID, err)
	}

	results := make([]lockservice.TaskInfo, 0, len(out.Items))
	for _, item := range out.Items {
		taskID := ""
		if av, ok := item["taskId"].(*types.AttributeValueMemberS); ok {
			taskID = av.Value
		}
		results = append(results, itemToTaskInfo(taskID, item))
	}
	return results, nil
}

func itemToTaskInfo(taskID string, item map[string]types.AttributeValue) lockservice.TaskInfo {
	info := lockservice.TaskInfo{TaskID: taskID}
	if av, ok := item["groupId"].(*types.AttributeValueMemberS); ok {
		info.GroupID = av.Value
	}
	if av, ok := item["priority"].(*types.AttributeValueMemberN); ok {
		if p, err := strconv.Atoi(av.Value); err == nil {
			info.Priority = p
		}
	}
	if av, ok := item["active"].(*types.AttributeValueMemberBOOL); ok {
		info.Active = av.Value
	}
	return info
}

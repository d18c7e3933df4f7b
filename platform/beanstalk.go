package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk/types"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
)

// BeanstalkClient implements Client against AWS Elastic Beanstalk.
type BeanstalkClient struct {
	eb *elasticbeanstalk.Client
}

// NewBeanstalkClient creates a Beanstalk client for the given region. When
// creds is nil the ambient AWS credential chain is used (environment,
// shared config, instance profile).
func NewBeanstalkClient(ctx context.Context, region string, creds *models.Credentials) (*BeanstalkClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	if creds != nil {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BeanstalkClient{eb: elasticbeanstalk.NewFromConfig(cfg)}, nil
}

// DescribeVersions returns the existing application versions matching labels.
func (c *BeanstalkClient) DescribeVersions(ctx context.Context, app string, labels []string) ([]Version, error) {
	out, err := c.eb.DescribeApplicationVersions(ctx, &elasticbeanstalk.DescribeApplicationVersionsInput{
		ApplicationName: aws.String(app),
		VersionLabels:   labels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe versions for %s: %w", app, err)
	}

	versions := make([]Version, 0, len(out.ApplicationVersions))
	for _, av := range out.ApplicationVersions {
		versions = append(versions, Version{
			App:   aws.ToString(av.ApplicationName),
			Label: aws.ToString(av.VersionLabel),
		})
	}
	return versions, nil
}

// CreateVersion registers a new application version from the S3 bundle.
func (c *BeanstalkClient) CreateVersion(ctx context.Context, input CreateVersionInput) (*OperationAck, error) {
	_, err := c.eb.CreateApplicationVersion(ctx, &elasticbeanstalk.CreateApplicationVersionInput{
		ApplicationName: aws.String(input.App),
		VersionLabel:    aws.String(input.Label),
		Description:     aws.String(input.Description),
		SourceBundle: &ebtypes.S3Location{
			S3Bucket: aws.String(input.Artifact.Bucket),
			S3Key:    aws.String(input.Artifact.Key),
		},
	})
	if err != nil {
		return ackFromError(err), fmt.Errorf("failed to create version %s for %s: %w", input.Label, input.App, err)
	}
	return &OperationAck{StatusCode: 200}, nil
}

// DescribeEnvironments returns current status for the named environments.
func (c *BeanstalkClient) DescribeEnvironments(ctx context.Context, app string, names []string) ([]models.EnvironmentStatus, error) {
	out, err := c.eb.DescribeEnvironments(ctx, &elasticbeanstalk.DescribeEnvironmentsInput{
		ApplicationName:  aws.String(app),
		EnvironmentNames: names,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe environments for %s: %w", app, err)
	}

	statuses := make([]models.EnvironmentStatus, 0, len(out.Environments))
	for _, env := range out.Environments {
		statuses = append(statuses, models.EnvironmentStatus{
			App:          app,
			Name:         aws.ToString(env.EnvironmentName),
			Status:       string(env.Status),
			Health:       healthCode(env),
			VersionLabel: aws.ToString(env.VersionLabel),
		})
	}
	return statuses, nil
}

// TriggerDeploy asks Beanstalk to roll the labelled version onto env.
func (c *BeanstalkClient) TriggerDeploy(ctx context.Context, app, env, label string) (*OperationAck, error) {
	_, err := c.eb.UpdateEnvironment(ctx, &elasticbeanstalk.UpdateEnvironmentInput{
		ApplicationName: aws.String(app),
		EnvironmentName: aws.String(env),
		VersionLabel:    aws.String(label),
	})
	if err != nil {
		return ackFromError(err), fmt.Errorf("failed to trigger deploy of %s to %s/%s: %w", label, app, env, err)
	}
	return &OperationAck{StatusCode: 200}, nil
}

// healthCode returns the enhanced health status when available, otherwise a
// mapping of the basic health color.
func healthCode(env ebtypes.EnvironmentDescription) string {
	if env.HealthStatus != "" {
		return string(env.HealthStatus)
	}
	switch env.Health {
	case ebtypes.EnvironmentHealthGreen:
		return HealthOk
	case ebtypes.EnvironmentHealthYellow:
		return HealthWarning
	case ebtypes.EnvironmentHealthRed:
		return HealthSevere
	default:
		return HealthUnknown
	}
}

// ackFromError recovers the HTTP status of a rejected request, when the SDK
// error carries one.
func ackFromError(err error) *OperationAck {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return &OperationAck{StatusCode: re.HTTPStatusCode()}
	}
	return nil
}

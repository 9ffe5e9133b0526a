package cosmos

import (
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/gagovictor/task-manager-sub000/internal/config"
)

// Connect builds the single container client for the cloud document engine.
// The SDK client is stateless over HTTP; there is nothing to tear down.
func Connect(conf *config.Config) (*azcosmos.ContainerClient, error) {
	credential, err := azcosmos.NewKeyCredential(conf.CosmosKey)
	if err != nil {
		return nil, err
	}

	client, err := azcosmos.NewClientWithKey(conf.CosmosEndpoint, credential, nil)
	if err != nil {
		return nil, err
	}

	return client.NewContainer(conf.CosmosDatabase, conf.CosmosContainer)
}

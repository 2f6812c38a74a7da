/*
Package crawlkit provides a CLI tool for deploying and inspecting the crawler
stack on Kubernetes.

The stack is made up of four components (api, worker, frontend, database) plus
an optional metrics-server deployment backing the status command. Resource
names, labels and image references are resolved from a layered configuration
before anything touches the cluster.

Usage:

	crawlkit [command]

Available Commands:

	deploy      Deploy the crawler stack
	render      Render the stack manifests as YAML
	get         Display the resolved identifiers for one or many components
	status      Show pod resource usage for the stack

Examples:

	# Deploy the whole stack with the built-in defaults
	crawlkit deploy

	# Deploy with a config file overriding the defaults
	crawlkit deploy --config crawlkit.yaml

	# Inspect the names and images a config would produce
	crawlkit get --config crawlkit.yaml

	# Print the manifests without applying them
	crawlkit render
*/
package crawlkit

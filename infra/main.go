package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		storage, err := NewStorage(ctx)
		if err != nil {
			return err
		}

		functions, err := NewFunctions(ctx, FunctionsArgs{
			storage: storage,
		})
		if err != nil {
			return err
		}

		auth, err := NewAuth(ctx, AuthArgs{
			functions: functions,
		})
		if err != nil {
			return err
		}

		_, err = NewApi(ctx, ApiArgs{
			functions: functions,
			auth:      auth,
		})
		if err != nil {
			return err
		}

		return nil
	})
}

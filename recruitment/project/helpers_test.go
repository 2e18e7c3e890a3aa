package project

import (
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
)

func kernelPosition(s string) kernel.PositionName { return kernel.PositionName(s) }

func quota(location string, qty int) allocation.LocationQuota {
	return allocation.LocationQuota{Location: kernel.LocationName(location), Quantity: qty}
}

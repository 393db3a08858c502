package handlers

import "dairyfresh-fulfillment/internal/domain"

func (r createDriverRequest) toModel() *domain.Driver {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &domain.Driver{
		Name:                r.Name,
		Phone:               r.Phone,
		ZoneID:              r.ZoneID,
		MaxDeliveriesPerDay: r.MaxDeliveriesPerDay,
		IsActive:            active,
	}
}

func (r updateDriverRequest) toModel(id int64) domain.PartialDriverUpdate {
	return domain.PartialDriverUpdate{
		ID:                  id,
		Name:                r.Name,
		Phone:               r.Phone,
		ZoneID:              r.ZoneID,
		MaxDeliveriesPerDay: r.MaxDeliveriesPerDay,
		IsActive:            r.IsActive,
	}
}

func driverToResponse(d domain.Driver) driverDTO {
	return driverDTO{
		ID:                  d.ID,
		Name:                d.Name,
		Phone:               d.Phone,
		ZoneID:              d.ZoneID,
		MaxDeliveriesPerDay: d.MaxDeliveriesPerDay,
		IsActive:            d.IsActive,
	}
}

func driversToResponse(list []domain.Driver) []driverDTO {
	out := make([]driverDTO, 0, len(list))
	for _, d := range list {
		out = append(out, driverToResponse(d))
	}
	return out
}

func deliveryToResponse(d *domain.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:            d.ID,
		OrderID:       d.OrderID,
		ZoneID:        d.ZoneID,
		DriverID:      d.DriverID,
		Status:        string(d.Status),
		ScheduledDate: fmtDate(d.ScheduledDate),
		Sequence:      d.Sequence,
		AssignedAt:    d.AssignedAt,
		DispatchedAt:  d.DispatchedAt,
		DeliveredAt:   d.DeliveredAt,
		ProofImage:    d.ProofImage,
		FailureReason: d.FailureReason,
	}
}

func subscriptionToResponse(s *domain.Subscription) subscriptionDTO {
	return subscriptionDTO{
		ID:               s.ID,
		CustomerID:       s.CustomerID,
		PlanID:           s.PlanID,
		ZoneID:           s.ZoneID,
		Status:           string(s.Status),
		StartDate:        fmtDate(s.StartDate),
		EndDate:          fmtDatePtr(s.EndDate),
		NextDeliveryDate: fmtDatePtr(s.NextDeliveryDate),
		VacationStart:    fmtDatePtr(s.VacationStart),
		VacationEnd:      fmtDatePtr(s.VacationEnd),
	}
}

func subscriptionDetailToResponse(d *domain.SubscriptionDetail) subscriptionDetailDTO {
	out := subscriptionDetailDTO{
		subscriptionDTO: subscriptionToResponse(&d.Subscription),
		Items:           make([]subscriptionItemDTO, 0, len(d.Items)),
	}
	if d.Plan != nil {
		out.PlanName = d.Plan.Name
	}
	for _, it := range d.Items {
		out.Items = append(out.Items, subscriptionItemDTO{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			IsActive:  it.IsActive,
		})
	}
	return out
}

func driverLoadsToResponse(list []domain.DriverLoad) []driverLoadDTO {
	out := make([]driverLoadDTO, 0, len(list))
	for _, l := range list {
		out = append(out, driverLoadDTO{
			driverDTO: driverToResponse(l.Driver),
			Assigned:  l.Assigned,
			Remaining: l.Remaining(),
		})
	}
	return out
}

func zoneSummariesToResponse(list []domain.ZoneSummary) []zoneSummaryDTO {
	out := make([]zoneSummaryDTO, 0, len(list))
	for _, s := range list {
		out = append(out, zoneSummaryDTO{
			ZoneID:         s.Zone.ID,
			ZoneName:       s.Zone.Name,
			Pending:        s.Pending,
			Assigned:       s.Assigned,
			OutForDelivery: s.OutForDelivery,
			Delivered:      s.Delivered,
			Failed:         s.Failed,
		})
	}
	return out
}

func dateCountsToResponse(list []domain.DateCount) []dateCountDTO {
	out := make([]dateCountDTO, 0, len(list))
	for _, c := range list {
		out = append(out, dateCountDTO{Date: fmtDate(c.Date), Deliveries: c.Deliveries})
	}
	return out
}

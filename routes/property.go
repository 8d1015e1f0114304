package routes

import (
	"fmt"
	"time"

	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
)

func Home(ctx iris.Context) {
	properties, err := services.FeaturedProperties(storage.DB)
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(iris.Map{"featuredProperties": properties})
}

func SearchProperties(ctx iris.Context) {
	var searchInput services.SearchInput
	if err := ctx.ReadQuery(&searchInput); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	properties, err := services.SearchProperties(storage.DB, searchInput)
	if err != nil {
		handleServiceError(ctx, err, "property_search")
		return
	}
	ctx.JSON(iris.Map{"properties": properties, "filters": searchInput})
}

func GetPropertyDetail(ctx iris.Context) {
	detail, err := services.GetPropertyDetail(storage.DB, idParam(ctx))
	if err != nil {
		handleServiceError(ctx, err, "property_search")
		return
	}
	ctx.JSON(detail)
}

func ListOwnerProperties(ctx iris.Context) {
	properties, err := services.ListOwnerProperties(storage.DB, utils.CurrentUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err, "home")
		return
	}
	ctx.JSON(iris.Map{"properties": properties})
}

func CreateProperty(ctx iris.Context) {
	var propertyInput services.PropertyInput
	if !readInput(ctx, &propertyInput) {
		return
	}

	property, err := services.CreateProperty(storage.DB, utils.CurrentUserID(ctx), propertyInput)
	if err != nil {
		handleServiceError(ctx, err, "property_list")
		return
	}
	created(ctx, "Property added successfully!", "property_list", property)
}

func UpdateProperty(ctx iris.Context) {
	var propertyInput services.PropertyInput
	if !readInput(ctx, &propertyInput) {
		return
	}

	property, err := services.UpdateProperty(storage.DB, utils.CurrentUserID(ctx), idParam(ctx), propertyInput)
	if err != nil {
		handleServiceError(ctx, err, "property_list")
		return
	}
	success(ctx, "Property updated successfully!", "property_list", property)
}

func DeleteProperty(ctx iris.Context) {
	if err := services.DeleteProperty(storage.DB, utils.CurrentUserID(ctx), idParam(ctx)); err != nil {
		handleServiceError(ctx, err, "property_list")
		return
	}
	success(ctx, "Property deleted successfully!", "property_list", nil)
}

func AddPropertyImage(ctx iris.Context) {
	var in imageUploadInput
	if !readInput(ctx, &in) {
		return
	}

	propertyID := idParam(ctx)
	if err := services.CheckPropertyOwner(storage.DB, utils.CurrentUserID(ctx), propertyID); err != nil {
		handleServiceError(ctx, err, "property_list")
		return
	}
	publicID := fmt.Sprintf("property-%d-%d", propertyID, time.Now().UnixNano())
	url, err := storage.Uploader.UploadImage(ctx.Request().Context(), in.Data, "property_images", publicID)
	if err != nil {
		uploadFailed(ctx, err, "property_list")
		return
	}

	image, err := services.AddPropertyImage(storage.DB, utils.CurrentUserID(ctx), propertyID, url, in.Caption, in.Primary)
	if err != nil {
		handleServiceError(ctx, err, "property_list")
		return
	}
	created(ctx, "Image uploaded successfully!", "property_list", image)
}
